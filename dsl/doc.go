// Package dsl provides a builder API for declaring commands without struct
// tags.
//
// Overview
//   - Command(name, description): a command builder. Add options with
//     Option/String/Integer/... to make a leaf, or Subcommand/Group to make a
//     container. Mixing both is reported as mixed_body.
//   - Options are optional by default; chain Required() to require one.
//   - Group(name, description).Subcommand(...): a sub-command group.
//   - Set(commands...): the top-level command set.
//
// Every builder ends in Build or MustBuild, which compile through the
// cmdskema constructors. Issues found in nested builders are rebased so their
// paths start at the outermost command.
//
// Quickstart
//
//	set := dsl.Set(
//		dsl.Command("ping", "Ping the bot").
//			Integer("n", "How many times").Required(),
//		dsl.Command("admin", "Administration").
//			Group(dsl.Group("roles", "Role management").
//				Subcommand(dsl.Command("add", "Grant a role").
//					User("user", "Target").Required().
//					Role("role", "Role to grant").Required())),
//	).MustBuild()
package dsl

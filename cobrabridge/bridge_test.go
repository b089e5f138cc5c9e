package cobrabridge_test

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/cobrabridge"
	"github.com/reoring/cmdskema/dsl"
)

func testSet() *cmdskema.Set {
	return dsl.Set(
		dsl.Command("ping", "Ping the bot").
			Integer("n", "How many times").Required().
			Boolean("loud", "Shout"),
		dsl.Command("admin", "Administration").
			Subcommand(dsl.Command("status", "Show status")).
			Group(dsl.Group("roles", "Role management").
				Subcommand(dsl.Command("add", "Grant a role").
					User("user", "Target").Required().
					Number("weight", "Weight"))),
	).MustBuild()
}

// execute runs args through a root command and returns the parsed value.
func execute(t *testing.T, args ...string) (*cmdskema.Value, error) {
	t.Helper()
	set := testSet()
	var (
		got    *cmdskema.Value
		perr   error
		called bool
	)
	root := &cobra.Command{Use: "bot", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(cobrabridge.BuildSet(set, func(_ *cobra.Command, in *cmdskema.Interaction) error {
		called = true
		got, perr = set.Parse(in)
		return perr
	})...)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	if !called && err == nil {
		t.Fatalf("run was not called for %v", args)
	}
	return got, err
}

func TestBridge_Leaf(t *testing.T) {
	v, err := execute(t, "ping", "--n", "3", "--loud")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if n, _ := v.IntArg("n"); n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if loud, _ := v.BoolArg("loud"); !loud {
		t.Fatalf("loud should be set")
	}
}

func TestBridge_UnsetFlagsAreAbsent(t *testing.T) {
	v, err := execute(t, "ping", "--n", "1")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if _, ok := v.Get("loud"); ok {
		t.Fatalf("loud should be absent")
	}
}

func TestBridge_MissingRequiredReachesParser(t *testing.T) {
	_, err := execute(t, "ping")
	if !errors.Is(err, cmdskema.ErrMissingOption) {
		t.Fatalf("expected missing option, got %v", err)
	}
}

func TestBridge_GroupPath(t *testing.T) {
	v, err := execute(t, "admin", "roles", "add", "--user", "42", "--weight", "0.5")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	p := v.Path()
	if len(p) != 3 || p[0] != "admin" || p[1] != "roles" || p[2] != "add" {
		t.Fatalf("unexpected path %v", p)
	}
	if u, _ := v.SnowflakeArg("user"); u != 42 {
		t.Fatalf("user = %v, want 42", u)
	}
	if w, _ := v.FloatArg("weight"); w != 0.5 {
		t.Fatalf("weight = %v, want 0.5", w)
	}
}

func TestBridge_SubcommandWithoutOptions(t *testing.T) {
	v, err := execute(t, "admin", "status")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if v.Leaf().Name != "status" {
		t.Fatalf("unexpected leaf %q", v.Leaf().Name)
	}
}

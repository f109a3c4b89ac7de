package cmd

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/sol25lang/solc/internal/diagnostics"
)

func runPipeline(t *testing.T, args []string, stdin string) (string, *diagnostics.Diagnostic) {
	t.Helper()
	var out strings.Builder
	err := run(args, strings.NewReader(stdin), &out)
	if err == nil {
		return out.String(), nil
	}
	d, ok := err.(*diagnostics.Diagnostic)
	if !ok {
		t.Fatalf("run returned non-Diagnostic error: %v", err)
	}
	return out.String(), d
}

func TestScenarioA_Hello(t *testing.T) {
	out, err := runPipeline(t, nil, `class Main : Object { run [|]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_a_hello", out)
}

func TestScenarioB_MissingMain(t *testing.T) {
	_, err := runPipeline(t, nil, `class Foo : Object { run [|]}`)
	if err == nil || err.Code != diagnostics.ExitMissingMain {
		t.Fatalf("got %v, want code 31", err)
	}
}

func TestScenarioC_WrongRunArity(t *testing.T) {
	_, err := runPipeline(t, nil, `class Main : Object { run [:x|]}`)
	if err == nil || err.Code != diagnostics.ExitArity {
		t.Fatalf("got %v, want code 33", err)
	}
}

func TestScenarioD_AttributeRoundTrip(t *testing.T) {
	out, err := runPipeline(t, nil, `class Main : Object { run [| self x: 1. y := self x. ] }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, "scenario_d_attribute_round_trip", out)
}

func TestScenarioE_UndefinedAttribute(t *testing.T) {
	_, err := runPipeline(t, nil, `class Main : Object { run [| y := self x. ] }`)
	if err == nil || err.Code != diagnostics.ExitUndefinedVar {
		t.Fatalf("got %v, want code 32", err)
	}
}

func TestScenarioF_Cycle(t *testing.T) {
	_, err := runPipeline(t, nil, `class Main : Object { run [|]} class A : B {} class B : A {}`)
	if err == nil || err.Code != diagnostics.ExitSemanticOther {
		t.Fatalf("got %v, want code 35", err)
	}
}

func TestScenarioG_KeywordAdjacency(t *testing.T) {
	_, err := runPipeline(t, nil, `class Main : Object { run [| x := 1 plus : 2. ] }`)
	if err == nil || err.Code != diagnostics.ExitSyntactic {
		t.Fatalf("got %v, want code 22", err)
	}
}

func TestCLIHelpFlag(t *testing.T) {
	out, err := runPipeline(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != usageText {
		t.Errorf("got %q, want usage text", out)
	}
}

func TestCLIShortHelpFlag(t *testing.T) {
	out, err := runPipeline(t, []string{"-h"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != usageText {
		t.Errorf("got %q, want usage text", out)
	}
}

func TestCLIUnknownSingleArgIsMissingParam(t *testing.T) {
	_, err := runPipeline(t, []string{"--bogus"}, "")
	if err == nil || err.Code != diagnostics.ExitMissingParam {
		t.Fatalf("got %v, want code 10", err)
	}
}

func TestCLITooManyArgsIsMissingParam(t *testing.T) {
	_, err := runPipeline(t, []string{"a", "b"}, "")
	if err == nil || err.Code != diagnostics.ExitMissingParam {
		t.Fatalf("got %v, want code 10", err)
	}
}

func TestCLIHelpSubcommandIsNotInterceptedByCobra(t *testing.T) {
	var out strings.Builder
	rootCmd.SetArgs([]string{"help"})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetOut(&out)
	err, _ := rootCmd.Execute().(*diagnostics.Diagnostic)
	if err == nil || err.Code != diagnostics.ExitMissingParam {
		t.Fatalf("got %v, want code 10 (cobra must not treat \"help\" as a subcommand)", err)
	}
}

func TestCLILexicalErrorPropagatesCode21(t *testing.T) {
	_, err := runPipeline(t, nil, `class Main : Object { run [|x := @.]}`)
	if err == nil || err.Code != diagnostics.ExitLexical {
		t.Fatalf("got %v, want code 21", err)
	}
}

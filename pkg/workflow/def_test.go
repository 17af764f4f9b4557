package workflow

import (
	"strings"
	"testing"

	"playbook/pkg/domain"
)

const sampleDef = `
workflow: commit-helper
description: guides an agent through writing a commit
entry: scan
steps:
  - id: scan
    title: Scan the diff
    actions:
      - run git diff
      - note changed packages
    handler: scan
    params:
      - name: mode
        required: true
        choices: [quick, full]
      - name: retries
        range: [1, 3]
    next:
      ok: write
      skip: write
  - id: write
    title: Write the message
    handler: write
    on_error: scan
    next:
      ok: _done
      fail: scan
`

func testRegistry() HandlerRegistry {
	return HandlerRegistry{
		"scan":  okHandler(OutcomeOK),
		"write": okHandler(OutcomeOK),
	}
}

func TestLoadDefAndCompile(t *testing.T) {
	def, err := LoadDef([]byte(sampleDef))
	if err != nil {
		t.Fatalf("LoadDef: %v", err)
	}
	if def.Workflow != "commit-helper" || def.Entry != "scan" {
		t.Fatalf("def = %+v, want commit-helper/scan", def)
	}

	w, err := Compile(def, testRegistry())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d, want 2", w.Len())
	}

	scan, _ := w.Step("scan")
	mode, ok := scan.Param("mode")
	if !ok {
		t.Fatal("scan has no mode param")
	}
	cs, ok := mode.Domain.(domain.ChoiceSet)
	if !ok {
		t.Fatalf("mode domain = %T, want ChoiceSet", mode.Domain)
	}
	if !cs.Contains("quick") || !cs.Contains("full") {
		t.Errorf("mode choices = %v, want quick and full", cs.Choices())
	}

	retries, _ := scan.Param("retries")
	bi, ok := retries.Domain.(domain.BoundedInt)
	if !ok {
		t.Fatalf("retries domain = %T, want BoundedInt", retries.Domain)
	}
	if bi.Lo() != 1 || bi.Hi() != 3 {
		t.Errorf("retries range = [%d, %d], want [1, 3]", bi.Lo(), bi.Hi())
	}
}

func TestCompileUnknownHandler(t *testing.T) {
	def, err := LoadDef([]byte(sampleDef))
	if err != nil {
		t.Fatalf("LoadDef: %v", err)
	}
	_, err = Compile(def, HandlerRegistry{"scan": okHandler(OutcomeOK)})
	if err == nil || !strings.Contains(err.Error(), `unknown handler "write"`) {
		t.Fatalf("Compile err = %v, want unknown handler write", err)
	}
}

func TestCompileBadRange(t *testing.T) {
	def := &Def{
		Workflow: "bad",
		Entry:    "a",
		Steps: []StepSpec{{
			ID: "a", Handler: "h",
			Next:   map[string]string{"ok": Terminal},
			Params: []ParamDef{{Name: "n", Range: []int{3, 1}}},
		}},
	}
	_, err := Compile(def, HandlerRegistry{"h": okHandler(OutcomeOK)})
	if err == nil {
		t.Fatal("Compile should reject inverted range")
	}
}

func TestCompileExclusiveDomainForms(t *testing.T) {
	def := &Def{
		Workflow: "bad",
		Entry:    "a",
		Steps: []StepSpec{{
			ID: "a", Handler: "h",
			Next:   map[string]string{"ok": Terminal},
			Params: []ParamDef{{Name: "n", Choices: []string{"x"}, Const: "y"}},
		}},
	}
	_, err := Compile(def, HandlerRegistry{"h": okHandler(OutcomeOK)})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("Compile err = %v, want mutually-exclusive failure", err)
	}
}

func TestDefMarshalRoundTrip(t *testing.T) {
	def, err := LoadDef([]byte(sampleDef))
	if err != nil {
		t.Fatalf("LoadDef: %v", err)
	}
	data, err := def.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := LoadDef(data)
	if err != nil {
		t.Fatalf("LoadDef(roundtrip): %v", err)
	}
	if _, err := Compile(again, testRegistry()); err != nil {
		t.Fatalf("Compile after roundtrip: %v", err)
	}
}

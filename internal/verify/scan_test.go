package verify

import (
	"testing"

	"verdict/internal/diag"
	"verdict/internal/source"
)

func scanString(t *testing.T, content string) ([]Expectation, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sg", []byte(content))
	bag := diag.NewBag(100)
	exps := Scan(fs.Get(id), diag.BagReporter{Bag: bag})
	return exps, bag
}

func TestScanSimpleMarker(t *testing.T) {
	exps, bag := scanString(t, "let x = 1 // expected-error{{cannot find 'y'}}\n")
	if bag.Len() != 0 {
		t.Fatalf("expected no parse findings, got %d", bag.Len())
	}
	if len(exps) != 1 {
		t.Fatalf("expected 1 expectation, got %d", len(exps))
	}

	exp := exps[0]
	if exp.Severity != diag.SevError {
		t.Errorf("severity = %s, want ERROR", exp.Severity)
	}
	if exp.Message != "cannot find 'y'" {
		t.Errorf("message = %q", exp.Message)
	}
	if exp.LineNo != 1 {
		t.Errorf("line = %d, want 1", exp.LineNo)
	}
	if exp.Remaining != 1 || exp.MayRepeat {
		t.Errorf("expected single occurrence, got remaining=%d mayRepeat=%v",
			exp.Remaining, exp.MayRepeat)
	}
}

func TestScanKinds(t *testing.T) {
	content := "// expected-note{{n}}\n// expected-warning{{w}}\n// expected-error{{e}}\n"
	exps, _ := scanString(t, content)
	if len(exps) != 3 {
		t.Fatalf("expected 3 expectations, got %d", len(exps))
	}
	wantSevs := []diag.Severity{diag.SevNote, diag.SevWarning, diag.SevError}
	for i, want := range wantSevs {
		if exps[i].Severity != want {
			t.Errorf("expectation %d severity = %s, want %s", i, exps[i].Severity, want)
		}
	}
}

func TestScanUnknownKindIsNotAMarker(t *testing.T) {
	exps, bag := scanString(t, "// expected-silliness{{x}}\n")
	if len(exps) != 0 {
		t.Fatalf("expected no expectations, got %d", len(exps))
	}
	if bag.Len() != 0 {
		t.Fatalf("unrecognized kind must be skipped silently, got %d findings", bag.Len())
	}
}

func TestScanMatchCount(t *testing.T) {
	exps, bag := scanString(t, "// expected-error 2{{dup}}\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected findings: %d", bag.Len())
	}
	if len(exps) != 1 || exps[0].Remaining != 2 {
		t.Fatalf("expected count 2, got %+v", exps)
	}
}

func TestScanWildcard(t *testing.T) {
	exps, _ := scanString(t, "// expected-note*{{candidate here}}\n")
	if len(exps) != 1 {
		t.Fatalf("expected 1 expectation, got %d", len(exps))
	}
	if !exps[0].MayRepeat {
		t.Error("expected MayRepeat for wildcard marker")
	}
}

func TestScanLineOffset(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine uint32
	}{
		{"plus offset", "// expected-error@+2{{m}}\nx\ny\n", 3},
		{"minus offset", "a\nb\n// expected-error@-1{{m}}\n", 2},
		{"offset then count", "// expected-error@+1 2{{m}}\nx\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exps, bag := scanString(t, tt.content)
			if bag.Len() != 0 {
				t.Fatalf("unexpected findings: %d", bag.Len())
			}
			if len(exps) != 1 {
				t.Fatalf("expected 1 expectation, got %d", len(exps))
			}
			if exps[0].LineNo != tt.wantLine {
				t.Errorf("line = %d, want %d", exps[0].LineNo, tt.wantLine)
			}
		})
	}
}

func TestScanParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode diag.Code
	}{
		{"missing text block", "// expected-error and nothing else\n", diag.MarkMissingText},
		{"unterminated text", "// expected-error{{unterminated\n", diag.MarkUnterminated},
		{"bad line offset sign", "// expected-error@2{{m}}\n", diag.MarkBadLineOffset},
		{"bad line offset digits", "// expected-error@+x{{m}}\n", diag.MarkBadLineOffset},
		{"bad match count", "// expected-error two{{m}}\n", diag.MarkBadMatchCount},
		{"zero match count", "// expected-error 0{{m}}\n", diag.MarkZeroMatchCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exps, bag := scanString(t, tt.content)
			if len(exps) != 0 {
				t.Fatalf("malformed marker should not produce an expectation, got %d", len(exps))
			}
			if bag.Len() != 1 {
				t.Fatalf("expected 1 finding, got %d", bag.Len())
			}
			if got := bag.Items()[0].Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got.ID(), tt.wantCode.ID())
			}
		})
	}
}

func TestScanResumesAfterMalformedMarker(t *testing.T) {
	content := "// expected-error{{unterminated\n// expected-warning{{fine}}\n"
	exps, bag := scanString(t, content)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 parse finding, got %d", bag.Len())
	}
	if len(exps) != 1 || exps[0].Message != "fine" {
		t.Fatalf("expected the well-formed marker to survive, got %+v", exps)
	}
}

func TestScanContinuationChain(t *testing.T) {
	content := "boom() // expected-error{{first}} \\\n" +
		"       // expected-error{{second}}\n" +
		"       // expected-error{{third}}\n"
	exps, _ := scanString(t, content)
	if len(exps) != 3 {
		t.Fatalf("expected 3 expectations, got %d", len(exps))
	}
	if exps[0].LineNo != 1 {
		t.Errorf("first marker line = %d, want 1", exps[0].LineNo)
	}
	// Second marker inherits the first marker's line via the trailing sentinel.
	if exps[1].LineNo != 1 {
		t.Errorf("chained marker line = %d, want 1", exps[1].LineNo)
	}
	// The chain resets once a marker has no sentinel.
	if exps[2].LineNo != 3 {
		t.Errorf("post-chain marker line = %d, want 3", exps[2].LineNo)
	}
}

func TestScanFixIts(t *testing.T) {
	exps, bag := scanString(t, "// expected-error{{m}} {{3-5=foo}} {{7-9=bar}}\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected findings: %d", bag.Len())
	}
	if len(exps) != 1 {
		t.Fatalf("expected 1 expectation, got %d", len(exps))
	}
	fixits := exps[0].FixIts
	if len(fixits) != 2 {
		t.Fatalf("expected 2 fix-its, got %d", len(fixits))
	}
	if fixits[0].StartCol != 3 || fixits[0].EndCol != 5 || fixits[0].Text != "foo" {
		t.Errorf("first fix-it = %+v", fixits[0])
	}
	if fixits[1].StartCol != 7 || fixits[1].EndCol != 9 || fixits[1].Text != "bar" {
		t.Errorf("second fix-it = %+v", fixits[1])
	}
	if exps[0].FixItsRange.Empty() {
		t.Error("expected FixItsRange to cover the fix-it blocks")
	}
}

func TestScanFixItClosingBraceInText(t *testing.T) {
	exps, _ := scanString(t, "// expected-error{{m}} {{1-2=}}}\n")
	if len(exps) != 1 || len(exps[0].FixIts) != 1 {
		t.Fatalf("expected 1 expectation with 1 fix-it, got %+v", exps)
	}
	if exps[0].FixIts[0].Text != "}" {
		t.Errorf("fix-it text = %q, want %q", exps[0].FixIts[0].Text, "}")
	}
}

func TestScanFixItNewlineEscape(t *testing.T) {
	exps, _ := scanString(t, `// expected-error{{m}} {{1-1=a\nb}}`+"\n")
	if len(exps) != 1 || len(exps[0].FixIts) != 1 {
		t.Fatalf("expected 1 fix-it, got %+v", exps)
	}
	if exps[0].FixIts[0].Text != "a\nb" {
		t.Errorf("fix-it text = %q, want embedded newline", exps[0].FixIts[0].Text)
	}
}

func TestScanFixItErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode diag.Code
	}{
		{"unclosed block", "// expected-error{{m}} {{3-5=foo\n", diag.MarkFixItUnclosed},
		{"missing dash", "// expected-error{{m}} {{35=foo}}\n", diag.MarkFixItMissingDash},
		{"missing equal", "// expected-error{{m}} {{3-5foo}}\n", diag.MarkFixItMissingEq},
		{"bad start column", "// expected-error{{m}} {{x-5=foo}}\n", diag.MarkFixItBadColumn},
		{"bad end column", "// expected-error{{m}} {{3-x=foo}}\n", diag.MarkFixItBadColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exps, bag := scanString(t, tt.content)
			// The marker itself still parses; only the fix-it is rejected.
			if len(exps) != 1 {
				t.Fatalf("expected 1 expectation, got %d", len(exps))
			}
			if bag.Len() != 1 {
				t.Fatalf("expected 1 finding, got %d", bag.Len())
			}
			if got := bag.Items()[0].Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got.ID(), tt.wantCode.ID())
			}
		})
	}
}

func TestScanStopsFixItsAtNonOpener(t *testing.T) {
	exps, bag := scanString(t, "// expected-error{{m}} {{1-2=x}} trailing prose\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected findings: %d", bag.Len())
	}
	if len(exps) != 1 || len(exps[0].FixIts) != 1 {
		t.Fatalf("expected exactly 1 fix-it, got %+v", exps)
	}
}

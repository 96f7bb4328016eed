package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"verdict/internal/diag"
	"verdict/internal/source"
)

func TestBuildFindingsOutput(t *testing.T) {
	bag, fs, id := makeBag(t, "one\ntwo\n")
	bag.Add(diag.NewError(diag.VerifyNotProduced, source.Point(id, 4), "error not produced: missing"))
	bag.Add(diag.NewError(diag.VerifyUnexpected, source.Span{File: id, Start: 0, End: 3}, "unexpected warning produced: w"))

	out := BuildFindingsOutput(bag, fs, JSONOpts{
		PathMode:         PathModeBasename,
		IncludePositions: true,
	})
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if len(out.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, want 2", len(out.Findings))
	}

	first := out.Findings[0]
	if first.Code != "VFY2001" {
		t.Errorf("Code = %q, want VFY2001", first.Code)
	}
	if first.Severity != "error" {
		t.Errorf("Severity = %q, want error", first.Severity)
	}
	if first.Location.File != "main.sg" {
		t.Errorf("File = %q, want main.sg", first.Location.File)
	}
	if first.Location.StartLine != 2 || first.Location.StartCol != 1 {
		t.Errorf("position = %d:%d, want 2:1", first.Location.StartLine, first.Location.StartCol)
	}
}

func TestBuildFindingsOutputMax(t *testing.T) {
	bag, fs, id := makeBag(t, "x\n")
	for n := 0; n < 5; n++ {
		bag.Add(diag.NewError(diag.VerifyUnexpected, source.Point(id, 0), "unexpected error produced: x"))
	}

	out := BuildFindingsOutput(bag, fs, JSONOpts{Max: 3})
	if len(out.Findings) != 3 {
		t.Fatalf("len(Findings) = %d, want 3 (truncated)", len(out.Findings))
	}
	// Count отражает полный Bag, не обрезку
	if out.Count != 5 {
		t.Fatalf("Count = %d, want 5", out.Count)
	}
}

func TestJSONIncludeFixes(t *testing.T) {
	bag, fs, id := makeBag(t, "abc\n")
	d := diag.NewError(diag.VerifyIncorrectMessage, source.Span{File: id, Start: 0, End: 3}, "incorrect message found")
	d = d.WithFix("replace expected text", diag.TextEdit{
		Span:    source.Span{File: id, Start: 0, End: 3},
		NewText: "xyz",
	})
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeFixes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out FindingsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal round-trip: %v", err)
	}
	if len(out.Findings) != 1 || len(out.Findings[0].Fixes) != 1 {
		t.Fatalf("fixes not serialized: %s", buf.String())
	}
	fix := out.Findings[0].Fixes[0]
	if fix.Title != "replace expected text" || len(fix.Edits) != 1 || fix.Edits[0].NewText != "xyz" {
		t.Fatalf("fix content mismatch: %+v", fix)
	}
}

package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilterKeepsIntersectingRecords(t *testing.T) {
	records := []Record{
		{Function: "completion", Models: []string{"CONTRASTcode"}, Meta: map[string]any{"label": "Code Completion"}},
		{Function: "chat", Models: []string{"chat"}},
	}
	got := Filter(records, []string{"CONTRASTcode"}, "m1")
	if len(got) != 1 { t.Fatalf("functions=%v", got) }
	fn, ok := got["completion"]
	if !ok { t.Fatalf("completion missing: %v", got) }
	if fn["model"] != "m1" { t.Fatalf("model=%v", fn["model"]) }
	if fn["is_liked"] != false || fn["likes"] != 0 || fn["third_party"] != false { t.Fatalf("stamps=%v", fn) }
	if fn["label"] != "Code Completion" { t.Fatalf("label=%v", fn["label"]) }
}

func TestFilterDoesNotMutateRecordMeta(t *testing.T) {
	rec := Record{Function: "completion", Models: []string{"m"}, Meta: map[string]any{"label": "x"}}
	Filter([]Record{rec}, []string{"m"}, "loaded")
	if _, ok := rec.Meta["model"]; ok { t.Fatalf("meta mutated: %v", rec.Meta) }
}

func TestFilterCapsTolerantTypes(t *testing.T) {
	if got := FilterCaps(map[string]any{"filter_caps": []string{"a", "b"}}); len(got) != 2 { t.Fatalf("got=%v", got) }
	if got := FilterCaps(map[string]any{"filter_caps": []any{"a", 3, "b"}}); len(got) != 2 { t.Fatalf("got=%v", got) }
	if got := FilterCaps(map[string]any{}); got != nil { t.Fatalf("got=%v", got) }
}

func TestLoginDocumentShape(t *testing.T) {
	doc := Login(Defaults(), []string{"CONTRASTcode"}, "m1")
	if doc.Account != "self-hosted" || doc.Retcode != "OK" { t.Fatalf("doc=%+v", doc) }
	if !doc.ChatV1Style { t.Fatal("chat-v1-style off") }
	if doc.Filters == nil || len(doc.Filters) != 0 { t.Fatalf("filters=%v", doc.Filters) }
	if _, ok := doc.Functions["completion"]; !ok { t.Fatalf("functions=%v", doc.Functions) }
	if _, ok := doc.Functions["chat"]; ok { t.Fatalf("chat leaked through filter: %v", doc.Functions) }
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	records, err := Load("")
	if err != nil { t.Fatalf("err=%v", err) }
	if len(records) != len(Defaults()) { t.Fatalf("records=%d", len(records)) }
}

func TestLoadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "- function: completion\n  models: [m1]\n  meta:\n    label: Completion\n"
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil { t.Fatalf("write: %v", err) }
	records, err := Load(p)
	if err != nil { t.Fatalf("err=%v", err) }
	if len(records) != 1 || records[0].Function != "completion" { t.Fatalf("records=%+v", records) }
	if records[0].Meta["label"] != "Completion" { t.Fatalf("meta=%v", records[0].Meta) }
}

func TestLoadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"function_name":"chat","model":["chat"]}]`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil { t.Fatalf("write: %v", err) }
	records, err := Load(p)
	if err != nil { t.Fatalf("err=%v", err) }
	if len(records) != 1 || records[0].Function != "chat" { t.Fatalf("records=%+v", records) }
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil { t.Fatalf("write: %v", err) }
	if _, err := Load(p); err == nil { t.Fatal("expected error for unsupported extension") }
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil { t.Fatal("expected error for missing file") }
}

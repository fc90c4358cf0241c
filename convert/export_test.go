package convert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"e2n/state"
)

// md5 of "hello world"
const helloHash = "5eb63bbbe01eeed093cb22bb8f5acdc3"

func testContext(t *testing.T, env *state.LocalEnv) context.Context {
	t.Helper()

	ctx := state.ContextWithEnv(context.Background())
	got := state.EnvFromContext(ctx)
	got.Cfg, got.Log = env.Cfg, env.Log
	got.NoDirs, got.Overwrite = env.NoDirs, env.Overwrite
	return ctx
}

func TestProcessExport(t *testing.T) {
	env := testEnv(t)
	env.Cfg.Document.ResourceBaseURL = "https://files.test"
	ctx := testContext(t, env)
	dst := t.TempDir()

	doc := fmt.Sprintf(`<en-export>
<note>
  <title>Groceries</title>
  <content><![CDATA[<en-note><div>remember</div><en-media hash="%s" type="text/plain"/></en-note>]]></content>
  <created>20231215T101112Z</created>
  <tag>errands</tag>
  <resource>
    <data>%s</data>
    <mime>text/plain</mime>
  </resource>
</note>
</en-export>`, helloHash, base64.StdEncoding.EncodeToString([]byte("hello world")))

	if err := processExport(ctx, strings.NewReader(doc), "notes.enex", dst, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("processExport() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "groceries.json"))
	if err != nil {
		t.Fatalf("expected output document: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if out["title"] != "Groceries" {
		t.Errorf("title = %v", out["title"])
	}
	if id, _ := out["id"].(string); len(id) == 0 {
		t.Error("document id missing")
	}

	batches := out["batches"].([]any)
	if len(batches) != 1 {
		t.Fatalf("document holds %d batches, want 1", len(batches))
	}
	blocks := batches[0].([]any)
	if len(blocks) != 2 {
		t.Fatalf("batch holds %d blocks, want paragraph and file", len(blocks))
	}
	file := blocks[1].(map[string]any)
	if file["type"] != "file" {
		t.Fatalf("block 1 type = %v, want file", file["type"])
	}
	url := file["file"].(map[string]any)["external"].(map[string]any)["url"]
	if url != "https://files.test/"+helloHash+".txt" {
		t.Errorf("url = %v, want content addressed link under the base url", url)
	}
}

func TestProcessExport_BadNoteDoesNotAbort(t *testing.T) {
	ctx := testContext(t, testEnv(t))
	dst := t.TempDir()

	doc := `<en-export>
<note>
  <title>Broken</title>
  <content>&lt;en-note</content>
</note>
<note>
  <title>Fine</title>
  <content><![CDATA[<en-note><div>ok</div></en-note>]]></content>
</note>
</en-export>`

	err := processExport(ctx, strings.NewReader(doc), "notes.enex", dst, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("processExport() succeeded, want aggregated error for the broken note")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("error = %v, should name the failing note", err)
	}

	if _, statErr := os.Stat(filepath.Join(dst, "fine.json")); statErr != nil {
		t.Errorf("good note not converted: %v", statErr)
	}
}

func TestProcessExport_EmptyExport(t *testing.T) {
	ctx := testContext(t, testEnv(t))

	if err := processExport(ctx, strings.NewReader(`<en-export/>`), "notes.enex", t.TempDir(), zaptest.NewLogger(t)); err != nil {
		t.Errorf("processExport() on empty export error = %v", err)
	}
}

func TestProcessExport_Cancellation(t *testing.T) {
	env := testEnv(t)
	ctx, cancel := context.WithCancel(testContext(t, env))
	cancel()

	doc := `<en-export><note><title>N</title><content><![CDATA[<en-note/>]]></content></note></en-export>`
	err := processExport(ctx, strings.NewReader(doc), "notes.enex", t.TempDir(), zaptest.NewLogger(t))
	if err == nil || !strings.Contains(err.Error(), "canceled") {
		t.Errorf("processExport() error = %v, want context cancellation", err)
	}
}

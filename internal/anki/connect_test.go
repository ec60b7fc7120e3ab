package anki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kartei/internal/card"
	"kartei/internal/record"
)

type fakeConnect struct {
	t       *testing.T
	decks   []string
	models  []string
	actions []string
	// perAction canned results
	results map[string]any
	// errors per action
	errs map[string]string
	// last addNote fields
	lastNote map[string]any
}

func (f *fakeConnect) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string         `json:"action"`
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Fatalf("decode request: %v", err)
		}
		f.actions = append(f.actions, req.Action)
		resp := map[string]any{"result": nil, "error": nil}
		if msg, ok := f.errs[req.Action]; ok {
			resp["error"] = msg
		} else {
			switch req.Action {
			case "version":
				resp["result"] = 6
			case "deckNames":
				resp["result"] = f.decks
			case "modelNames":
				resp["result"] = f.models
			case "addNote":
				f.lastNote = req.Params["note"].(map[string]any)
				resp["result"] = 1496198395707
			case "exportPackage":
				resp["result"] = true
			}
			if custom, ok := f.results[req.Action]; ok {
				resp["result"] = custom
			}
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			f.t.Fatalf("encode response: %v", err)
		}
	}
}

func newFake(t *testing.T) (*fakeConnect, *ConnectClient) {
	fake := &fakeConnect{t: t, results: map[string]any{}, errs: map[string]string{}}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return fake, NewConnectClient(ConnectConfig{URL: server.URL})
}

func TestPing(t *testing.T) {
	fake, client := newFake(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	fake.results["version"] = 4
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error for old protocol")
	}
}

func TestEnsureDeckSkipsExisting(t *testing.T) {
	fake, client := newFake(t)
	fake.decks = []string{"Kartei::Deutsch"}
	if err := client.EnsureDeck(context.Background(), "Kartei::Deutsch"); err != nil {
		t.Fatalf("EnsureDeck: %v", err)
	}
	for _, action := range fake.actions {
		if action == "createDeck" {
			t.Fatal("existing deck must not be recreated")
		}
	}

	if err := client.EnsureDeck(context.Background(), "Neu"); err != nil {
		t.Fatalf("EnsureDeck: %v", err)
	}
	if fake.actions[len(fake.actions)-1] != "createDeck" {
		t.Fatalf("actions = %v", fake.actions)
	}
}

func TestEnsureNoteTypeCreatesMissingModel(t *testing.T) {
	fake, client := newFake(t)
	nt, _ := card.NoteTypeFor(record.TypeNoun)
	if err := client.EnsureNoteType(context.Background(), nt); err != nil {
		t.Fatalf("EnsureNoteType: %v", err)
	}
	if fake.actions[len(fake.actions)-1] != "createModel" {
		t.Fatalf("actions = %v", fake.actions)
	}

	fake.models = []string{nt.Name}
	fake.actions = nil
	if err := client.EnsureNoteType(context.Background(), nt); err != nil {
		t.Fatalf("EnsureNoteType existing: %v", err)
	}
	for _, action := range fake.actions {
		if action == "createModel" {
			t.Fatal("existing model must not be recreated")
		}
	}
}

func TestAddNoteMapsFieldsByName(t *testing.T) {
	fake, client := newFake(t)
	rec, err := record.New(record.TypePhrase, 0, []string{"Wie geht's?", "How are you?"})
	if err != nil {
		t.Fatal(err)
	}
	cards, err := card.Build(rec, map[string]string{record.FieldWordAudio: "[sound:a.mp3]"})
	if err != nil {
		t.Fatal(err)
	}
	added, err := client.AddNote(context.Background(), "Kartei::Deutsch", cards[0])
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if !added {
		t.Fatal("expected note to be added")
	}
	fields := fake.lastNote["fields"].(map[string]any)
	if fields["Phrase"] != "Wie geht's?" {
		t.Fatalf("fields = %v", fields)
	}
	if fields["WordAudio"] != "[sound:a.mp3]" {
		t.Fatalf("fields = %v", fields)
	}
	if fake.lastNote["deckName"] != "Kartei::Deutsch" {
		t.Fatalf("deck = %v", fake.lastNote["deckName"])
	}
}

func TestAddNoteTreatsDuplicateAsSkip(t *testing.T) {
	fake, client := newFake(t)
	fake.errs["addNote"] = "cannot create note because it is a duplicate"
	rec, _ := record.New(record.TypePhrase, 0, []string{"Hallo", "hello"})
	cards, _ := card.Build(rec, nil)
	added, err := client.AddNote(context.Background(), "Deck", cards[0])
	if err != nil {
		t.Fatalf("duplicate should not error: %v", err)
	}
	if added {
		t.Fatal("duplicate must report added=false")
	}

	fake.errs["addNote"] = "collection is not available"
	if _, err := client.AddNote(context.Background(), "Deck", cards[0]); err == nil {
		t.Fatal("other errors must surface")
	}
}

func TestExportDeck(t *testing.T) {
	fake, client := newFake(t)
	if err := client.ExportDeck(context.Background(), "Kartei::Deutsch", "/tmp/out.apkg"); err != nil {
		t.Fatalf("ExportDeck: %v", err)
	}
	fake.results["exportPackage"] = false
	if err := client.ExportDeck(context.Background(), "Kartei::Deutsch", "/tmp/out.apkg"); err == nil {
		t.Fatal("expected error on reported failure")
	}
}

package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kartei/internal/card"
)

const (
	connectVersion     = 6
	defaultConnectURL  = "http://127.0.0.1:8765"
	defaultHTTPTimeout = 30 * time.Second
)

// duplicate rejections come back as a plain error string from AnkiConnect.
const duplicateNoteMessage = "cannot create note because it is a duplicate"

// ConnectConfig captures the runtime settings for the AnkiConnect backend.
type ConnectConfig struct {
	URL            string
	TimeoutSeconds int
}

// ConnectClient implements Backend against the AnkiConnect add-on HTTP API.
type ConnectClient struct {
	url        string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*ConnectClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ConnectClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewConnectClient constructs an AnkiConnect backend client.
func NewConnectClient(cfg ConnectConfig, opts ...Option) *ConnectClient {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &ConnectClient{
		url:        strings.TrimSuffix(strings.TrimSpace(cfg.URL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.url == "" {
		client.url = defaultConnectURL
	}
	return client
}

type connectRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type connectResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke posts one AnkiConnect action and decodes the result into out when
// out is non-nil.
func (c *ConnectClient) invoke(ctx context.Context, action string, params, out any) error {
	encoded, err := json.Marshal(connectRequest{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("anki %s: encode request: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("anki %s: new request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anki %s: http error: %w", action, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anki %s: read body: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki %s: http %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed connectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("anki %s: decode response: %w", action, err)
	}
	if parsed.Error != nil && *parsed.Error != "" {
		return &connectError{Action: action, Message: *parsed.Error}
	}
	if out != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("anki %s: decode result: %w", action, err)
		}
	}
	return nil
}

type connectError struct {
	Action  string
	Message string
}

func (e *connectError) Error() string {
	return fmt.Sprintf("anki %s: %s", e.Action, e.Message)
}

// Ping verifies AnkiConnect answers with a supported protocol version.
func (c *ConnectClient) Ping(ctx context.Context) error {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return err
	}
	if version < connectVersion {
		return fmt.Errorf("anki version: AnkiConnect protocol %d too old, need %d", version, connectVersion)
	}
	return nil
}

// EnsureDeck creates the deck unless it already exists.
func (c *ConnectClient) EnsureDeck(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("anki createDeck: deck name required")
	}
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	return c.invoke(ctx, "createDeck", map[string]any{"deck": name}, nil)
}

// EnsureNoteType creates the note model unless one with the same name
// already exists.
func (c *ConnectClient) EnsureNoteType(ctx context.Context, nt card.NoteType) error {
	var names []string
	if err := c.invoke(ctx, "modelNames", nil, &names); err != nil {
		return err
	}
	for _, existing := range names {
		if existing == nt.Name {
			return nil
		}
	}
	params := map[string]any{
		"modelName":     nt.Name,
		"inOrderFields": nt.Fields,
		"css":           modelCSS,
		"isCloze":       nt.Cloze,
		"cardTemplates": templatesFor(nt),
	}
	return c.invoke(ctx, "createModel", params, nil)
}

// AddNote adds one note, translating AnkiConnect's duplicate rejection into
// a skipped (false, nil) result.
func (c *ConnectClient) AddNote(ctx context.Context, deck string, note card.Card) (bool, error) {
	nt, ok := card.NoteTypeByName(note.NoteType)
	if !ok {
		return false, fmt.Errorf("anki addNote: unknown note type %q", note.NoteType)
	}
	if len(note.Fields) != len(nt.Fields) {
		return false, fmt.Errorf("anki addNote: note type %q declares %d fields, card has %d", nt.Name, len(nt.Fields), len(note.Fields))
	}
	fields := make(map[string]string, len(nt.Fields))
	for i, name := range nt.Fields {
		fields[name] = note.Fields[i]
	}
	params := map[string]any{
		"note": map[string]any{
			"deckName":  deck,
			"modelName": note.NoteType,
			"fields":    fields,
			"tags":      note.Tags,
			"options":   map[string]any{"allowDuplicate": false},
		},
	}
	err := c.invoke(ctx, "addNote", params, nil)
	if err != nil {
		var cerr *connectError
		if errors.As(err, &cerr) && strings.Contains(strings.ToLower(cerr.Message), duplicateNoteMessage) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddMediaFile registers a file with Anki's media collection by absolute
// path.
func (c *ConnectClient) AddMediaFile(ctx context.Context, filename, path string) error {
	params := map[string]any{
		"filename":       filename,
		"path":           path,
		"deleteExisting": false,
	}
	return c.invoke(ctx, "storeMediaFile", params, nil)
}

// ExportDeck writes the deck as an .apkg package.
func (c *ConnectClient) ExportDeck(ctx context.Context, deck, outPath string) error {
	params := map[string]any{
		"deck":         deck,
		"path":         outPath,
		"includeSched": false,
	}
	var ok bool
	if err := c.invoke(ctx, "exportPackage", params, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("anki exportPackage: export of %q reported failure", deck)
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/osp/internal/client/client"
)

// fakeAPI records every call and answers from per-endpoint tables.
type fakeAPI struct {
	mu sync.Mutex

	responses map[string]string
	errs      map[string]error

	calls []client.Request
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAPI) answer(key string, out any) error {
	if err := f.errs[key]; err != nil {
		return err
	}
	if raw, ok := f.responses[key]; ok && out != nil {
		return json.Unmarshal([]byte(raw), out)
	}
	return nil
}

func (f *fakeAPI) record(req client.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
}

func (f *fakeAPI) Do(ctx context.Context, req client.Request) (json.RawMessage, error) {
	f.record(req)
	key := req.Method + " " + req.Endpoint
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	if raw, ok := f.responses[key]; ok {
		return json.RawMessage(raw), nil
	}
	return json.RawMessage("{}"), nil
}

func (f *fakeAPI) Get(ctx context.Context, endpoint string, out any) error {
	f.record(client.Request{Method: "GET", Endpoint: endpoint})
	return f.answer("GET "+endpoint, out)
}

func (f *fakeAPI) Post(ctx context.Context, endpoint string, body, out any) error {
	f.record(client.Request{Method: "POST", Endpoint: endpoint, Body: body})
	return f.answer("POST "+endpoint, out)
}

func (f *fakeAPI) Delete(ctx context.Context, endpoint string, out any) error {
	f.record(client.Request{Method: "DELETE", Endpoint: endpoint})
	return f.answer("DELETE "+endpoint, out)
}

type fakeStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	legacy  string
	setErr  error
}

func (f *fakeStore) AccessToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.access != "" {
		return f.access, nil
	}
	return f.legacy, nil
}

func (f *fakeStore) Replace(ctx context.Context, legacy, access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.legacy, f.access, f.refresh = legacy, access, refresh
	return nil
}

func (f *fakeStore) HasToken(ctx context.Context) bool {
	tok, _ := f.AccessToken(ctx)
	return tok != ""
}

func (f *fakeStore) clear() {
	f.mu.Lock()
	f.access, f.refresh, f.legacy = "", "", ""
	f.mu.Unlock()
}

type fakeSession struct {
	store   *fakeStore
	logouts int
}

func (f *fakeSession) Logout(ctx context.Context) error {
	f.logouts++
	if f.store != nil {
		f.store.clear()
	}
	return nil
}

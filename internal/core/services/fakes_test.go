package services

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

var errBoom = errors.New("boom")

// fakeExtractor returns canned results per path.
type fakeExtractor struct {
	mu      sync.Mutex
	results map[string]*domain.RawText
	errs    map[string]error
	calls   []string
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{results: map[string]*domain.RawText{}, errs: map[string]error{}}
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (*domain.RawText, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if raw, ok := f.results[path]; ok {
		return raw, nil
	}
	return nil, domain.ErrUnreadable
}

func (f *fakeExtractor) Name() string { return "fake" }

// fakeArtifacts records the staging lifecycle without touching disk.
type fakeArtifacts struct {
	stageErr  error
	commitErr error
	staged    []string
	committed []string
	discarded []string
}

func (f *fakeArtifacts) PathFor(id string) string { return "/artifacts" + id + ".txt" }

func (f *fakeArtifacts) Stage(doc *domain.Document) (driven.StagedArtifact, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	f.staged = append(f.staged, doc.ID)
	return &fakeStaged{parent: f, id: doc.ID}, nil
}

type fakeStaged struct {
	parent *fakeArtifacts
	id     string
}

func (s *fakeStaged) Commit() (string, error) {
	if s.parent.commitErr != nil {
		return "", s.parent.commitErr
	}
	s.parent.committed = append(s.parent.committed, s.id)
	return s.parent.PathFor(s.id), nil
}

func (s *fakeStaged) Discard() error {
	s.parent.discarded = append(s.parent.discarded, s.id)
	return nil
}

// failingStore rejects SaveProcessed while fail is set.
type failingStore struct {
	*memory.DocumentStore
	fail bool
}

func (s *failingStore) SaveProcessed(ctx context.Context, doc *domain.Document) error {
	if s.fail {
		return errBoom
	}
	return s.DocumentStore.SaveProcessed(ctx, doc)
}

// fakeLLM echoes prompts back.
type fakeLLM struct {
	prompts []string
	chats   [][]driven.ChatMessage
	err     error
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "answer to: " + prompt, nil
}

func (f *fakeLLM) Chat(_ context.Context, msgs []driven.ChatMessage, _ driven.GenerateOptions) (string, error) {
	f.chats = append(f.chats, msgs)
	if f.err != nil {
		return "", f.err
	}
	return "chat reply to: " + msgs[len(msgs)-1].Content, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-model" }
func (f *fakeLLM) Ping(context.Context) error   { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// fakeWalker yields fixed streams.
type fakeWalker struct {
	streams []*domain.ImageStream
	diags   []domain.Diagnostic
	err     error
}

func (f *fakeWalker) Walk(_ context.Context, _ string, visit driven.ImageVisitor) ([]domain.Diagnostic, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.streams {
		if err := visit(s); err != nil {
			return f.diags, err
		}
	}
	return f.diags, nil
}

// fakeDecoder fails for streams with an unsupported filter.
type fakeDecoder struct {
	downscaled []int
}

func (f *fakeDecoder) Decode(s *domain.ImageStream) (image.Image, error) {
	if s.Filter == domain.FilterUnsupported {
		return nil, domain.ErrDecodeSkipped
	}
	return image.NewRGBA(image.Rect(0, 0, s.Width, s.Height)), nil
}

func (f *fakeDecoder) Downscale(img image.Image, maxWidth int) image.Image {
	f.downscaled = append(f.downscaled, maxWidth)
	return img
}

// fakeSink records written names.
type fakeSink struct {
	prepareErr error
	writeErr   error
	prepared   int
	written    []string
}

func (f *fakeSink) Prepare(string) error {
	f.prepared++
	return f.prepareErr
}

func (f *fakeSink) Write(dir string, img *domain.PageImage) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	path := dir + "/" + img.FileName()
	f.written = append(f.written, path)
	return path, nil
}

// fakeValidator counts validations.
type fakeValidator struct {
	err   error
	calls int
}

func (f *fakeValidator) ValidateLLM(*domain.LLMSettings) error {
	f.calls++
	return f.err
}

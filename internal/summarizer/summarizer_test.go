package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/caption-digest/internal/analysis"
	"github.com/nguyentantai21042004/caption-digest/internal/errors"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type fakeClient struct {
	class     *analysis.ClassResponse
	topics    *analysis.TopicsResponse
	classErr  error
	topicsErr error
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	keys      []string
}

func (f *fakeClient) enter() func() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeClient) Classify(ctx context.Context, key, text string) (*analysis.ClassResponse, error) {
	defer f.enter()()
	f.keys = append(f.keys, key)
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.class, f.classErr
}

func (f *fakeClient) Topics(ctx context.Context, key, text string) (*analysis.TopicsResponse, error) {
	defer f.enter()()
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return f.topics, f.topicsErr
}

type fakeStore struct {
	key string
	err error
}

func (s *fakeStore) Get(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.key == "" {
		return "", errors.NewCredentialMissing()
	}
	return s.key, nil
}
func (s *fakeStore) Set(ctx context.Context, v string) error { s.key = v; return nil }
func (s *fakeStore) Close() error                            { return nil }

type fakeAbstractor struct {
	text string
	err  error
}

func (a *fakeAbstractor) Abstract(ctx context.Context, transcript string) (string, error) {
	return a.text, a.err
}

func ok() *analysis.Status { return &analysis.Status{Code: "0", Msg: "OK"} }

func cats(pairs ...any) []analysis.Category {
	var out []analysis.Category
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, analysis.Category{Label: pairs[i].(string), Relevance: analysis.Relevance(pairs[i+1].(float64))})
	}
	return out
}

func concepts(pairs ...any) []analysis.Concept {
	var out []analysis.Concept
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, analysis.Concept{Form: pairs[i].(string), Relevance: analysis.Relevance(pairs[i+1].(float64))})
	}
	return out
}

func newSummarizer(client analysis.Client, abstractor Abstractor) Summarizer {
	return New(client, &fakeStore{key: "secret"}, abstractor, 2, logger.Nop())
}

func TestSummarize_FormatsTopicsBeforeConcepts(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{Status: ok(), CategoryList: cats("News>Sports", 45.0)},
		topics: &analysis.TopicsResponse{Status: ok(), ConceptList: concepts("game", 30.0)},
	}

	res, err := newSummarizer(client, nil).Summarize(context.Background(), "the game is on ")
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Main Topics")
	assert.Contains(t, res.Text, "Sports (45%)")
	assert.Contains(t, res.Text, "Key Concepts")
	assert.Contains(t, res.Text, "game (30%)")
	assert.Less(t, strings.Index(res.Text, "Main Topics"), strings.Index(res.Text, "Key Concepts"))
	assert.Equal(t, "📊 Content Analysis\n\n🏷️ Main Topics:\n• Sports (45%)\n\n🔑 Key Concepts:\n• game (30%)\n", res.Text)
	assert.Equal(t, []string{"secret"}, client.keys)
}

func TestSummarize_RunsBothRequestsConcurrently(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{Status: ok(), CategoryList: cats("Sports", 45.0)},
		topics: &analysis.TopicsResponse{Status: ok()},
		delay:  30 * time.Millisecond,
	}

	_, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, int32(2), client.maxFlight.Load())
}

func TestSummarize_BoundsConcurrentSummaries(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{Status: ok(), CategoryList: cats("Sports", 45.0)},
		topics: &analysis.TopicsResponse{Status: ok()},
		delay:  50 * time.Millisecond,
	}
	sum := New(client, &fakeStore{key: "secret"}, nil, 1, logger.Nop())

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := sum.Summarize(context.Background(), "text")
			errs <- err
		}()
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, int32(2), client.maxFlight.Load(), "a second summary waits for the first to finish")
}

func TestSummarize_QueuedSummaryCancelled(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{Status: ok(), CategoryList: cats("Sports", 45.0)},
		topics: &analysis.TopicsResponse{Status: ok()},
		delay:  300 * time.Millisecond,
	}
	sum := New(client, &fakeStore{key: "secret"}, nil, 1, logger.Nop())

	first := make(chan error, 1)
	go func() {
		_, err := sum.Summarize(context.Background(), "text")
		first <- err
	}()
	require.Eventually(t, func() bool { return client.inFlight.Load() > 0 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sum.Summarize(ctx, "text")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, <-first)
}

func TestSummarize_StatusCodes(t *testing.T) {
	tests := []struct {
		name        string
		classCode   string
		topicsCode  string
		topicsMsg   string
		want        errors.Code
		wantMessage string
	}{
		{"denied", "100", "0", "", errors.ErrAPIDenied, ""},
		{"rate limited", "0", "104", "", errors.ErrRateLimited, ""},
		{"malformed", "200", "0", "", errors.ErrMalformedRequest, ""},
		{"too short on classification", "201", "0", "", errors.ErrTextTooShort, ""},
		{"too short on topics", "0", "201", "", errors.ErrTextTooShort, ""},
		{"classification inspected first", "104", "100", "", errors.ErrRateLimited, ""},
		{"unknown keeps service message", "0", "212", "No content to analyze", errors.ErrUnknownAPI, "No content to analyze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				class: &analysis.ClassResponse{
					Status:       &analysis.Status{Code: analysis.FlexString(tt.classCode)},
					CategoryList: cats("Sports", 90.0),
				},
				topics: &analysis.TopicsResponse{
					Status:      &analysis.Status{Code: analysis.FlexString(tt.topicsCode), Msg: tt.topicsMsg},
					ConceptList: concepts("game", 90.0),
				},
			}

			res, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.want, errors.CodeOf(err))
			if tt.wantMessage != "" {
				assert.Contains(t, err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestSummarize_FilterSortTruncate(t *testing.T) {
	client := &fakeClient{
		class: &analysis.ClassResponse{CategoryList: cats(
			"A", 10.0, // on the floor: dropped
			"B", 55.0,
			"C", 12.0,
			"D", 80.0,
			"E", 55.0,
			"F", 9.5,
		)},
		topics: &analysis.TopicsResponse{ConceptList: concepts(
			"x", 11.0,
			"y", 10.0,
		)},
	}

	res, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, []Entry{{"D", 80}, {"B", 55}, {"E", 55}}, res.Categories)
	assert.Equal(t, []Entry{{"x", 11}}, res.Concepts)
	assert.NotContains(t, res.Text, "A (10%)")
	assert.NotContains(t, res.Text, "y (10%)")
}

func TestSummarize_ContentNotExtracted(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{Status: ok(), CategoryList: cats("A", 10.0)},
		topics: &analysis.TopicsResponse{Status: ok(), ConceptList: concepts("b", 3.0)},
	}

	res, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrContentNotExtracted), "err = %v", err)
}

func TestSummarize_OnlyOneSection(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{},
		topics: &analysis.TopicsResponse{ConceptList: concepts("game", 30.0)},
	}

	res, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.NotContains(t, res.Text, "Main Topics")
	assert.Equal(t, "📊 Content Analysis\n\n\n🔑 Key Concepts:\n• game (30%)\n", res.Text)
}

func TestSummarize_CredentialMissing(t *testing.T) {
	client := &fakeClient{}
	s := New(client, &fakeStore{}, nil, 1, logger.Nop())

	_, err := s.Summarize(context.Background(), "text")
	assert.True(t, errors.Is(err, errors.ErrCredentialMissing), "err = %v", err)
	assert.Equal(t, int32(0), client.maxFlight.Load(), "no request should be sent without a credential")
}

func TestSummarize_TransportFailure(t *testing.T) {
	client := &fakeClient{
		classErr: fmt.Errorf("dial tcp: connection refused"),
		topics:   &analysis.TopicsResponse{Status: ok()},
	}

	_, err := newSummarizer(client, nil).Summarize(context.Background(), "text")
	assert.True(t, errors.Is(err, errors.ErrTransportFailure), "err = %v", err)
}

func TestSummarize_Cancelled(t *testing.T) {
	client := &fakeClient{
		class:  &analysis.ClassResponse{},
		topics: &analysis.TopicsResponse{},
		delay:  time.Second,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newSummarizer(client, nil).Summarize(ctx, "text")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSummarize_Abstract(t *testing.T) {
	base := func() *fakeClient {
		return &fakeClient{
			class:  &analysis.ClassResponse{CategoryList: cats("Sports", 45.0)},
			topics: &analysis.TopicsResponse{},
		}
	}

	res, err := newSummarizer(base(), &fakeAbstractor{text: "A match report."}).Summarize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "A match report.", res.Abstract)
	assert.NotContains(t, res.Text, "A match report.")

	res, err = newSummarizer(base(), &fakeAbstractor{err: fmt.Errorf("quota")}).Summarize(context.Background(), "text")
	require.NoError(t, err, "abstract failures must not fail the summary")
	assert.Empty(t, res.Abstract)
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "Sports", shortLabel("News>Sports"))
	assert.Equal(t, "football", shortLabel("sport>soccer > football"))
	assert.Equal(t, "Economy", shortLabel("Economy"))
}

func TestNewGemini_NoKeys(t *testing.T) {
	assert.Nil(t, NewGemini(nil, "gemini-2.5-flash", logger.Nop()))
	assert.Nil(t, NewGemini([]string{"  "}, "gemini-2.5-flash", logger.Nop()))
	assert.NotNil(t, NewGemini([]string{"k1"}, "gemini-2.5-flash", logger.Nop()))
}

package nlu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/nlu"
	"github.com/aretw0/switchboard/pkg/ports"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func replying(reply string, err error) *mockGenerator {
	g := &mockGenerator{}
	g.On("Generate", mock.Anything, mock.Anything).Return(reply, err)
	return g
}

func bankWorkflow(t *testing.T) *domain.Workflow {
	t.Helper()
	w := domain.NewWorkflow()
	require.NoError(t, w.AddNode(domain.Node{
		ID: "start", Type: domain.NodeTypeStart, Title: "Greeting",
		Content: "Hello! How can I help you today?",
		Outputs: []string{"help", "account"},
	}))
	require.NoError(t, w.AddNode(domain.Node{
		ID: "help", Type: domain.NodeTypeIntent, Title: "Help Request",
		Content: "I can help with several things.",
	}))
	require.NoError(t, w.AddNode(domain.Node{
		ID: "account", Type: domain.NodeTypeIntent, Title: "Account Request",
		Content: "Manage your account balance",
	}))
	return w
}

func TestHeuristicExtractor(t *testing.T) {
	tests := []struct {
		name    string
		message string
		slots   []string
		want    map[string]string
	}{
		{"colon", "Account_Type: checking please", []string{"account_type"}, map[string]string{"account_type": "checking"}},
		{"is", "the account_type is savings", []string{"account_type"}, map[string]string{"account_type": "savings"}},
		{"my is", "my account_type is savings", []string{"account_type"}, map[string]string{"account_type": "savings"}},
		{"for", "savings for account_type", []string{"account_type"}, map[string]string{"account_type": "savings"}},
		{"no match", "I don't know", []string{"account_type"}, map[string]string{}},
		{"partial", "city is Lisbon", []string{"city", "pin"}, map[string]string{"city": "Lisbon"}},
		{"regex chars in slot", "a.b: x", []string{"a.b"}, map[string]string{"a.b": "x"}},
		{"no slots", "anything", nil, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nlu.HeuristicExtractor{}.Extract(context.Background(), nlu.ExtractRequest{
				Message:       tt.message,
				RequiredSlots: tt.slots,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelExtractor(t *testing.T) {
	req := nlu.ExtractRequest{Message: "savings, pin 1234", RequiredSlots: []string{"account_type", "pin", "city"}}

	tests := []struct {
		name  string
		reply string
		err   error
		want  map[string]string
	}{
		{"plain json", `{"account_type": "savings", "pin": 1234, "city": null, "extra": "x"}`, nil,
			map[string]string{"account_type": "savings", "pin": "1234"}},
		{"fenced", "Here you go:\n```json\n{\"account_type\": \"savings\"}\n```", nil,
			map[string]string{"account_type": "savings"}},
		{"embedded", `Sure! {"city": "Porto", "pin": ""} hope it helps`, nil,
			map[string]string{"city": "Porto"}},
		{"bool and nested", `{"account_type": true, "pin": {"v": 1}}`, nil,
			map[string]string{"account_type": "true"}},
		{"garbage", "no json here", nil, map[string]string{}},
		{"delegate error", "", errors.New("connection refused"), map[string]string{}},
		{"empty reply", "", nil, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := replying(tt.reply, tt.err)
			got := nlu.NewModelExtractor(gen).Extract(context.Background(), req)
			assert.Equal(t, tt.want, got)
			gen.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestModelExtractor_SkipsDelegateWithoutSlots(t *testing.T) {
	gen := &mockGenerator{}
	got := nlu.NewModelExtractor(gen).Extract(context.Background(), nlu.ExtractRequest{Message: "hi"})
	assert.Empty(t, got)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFallbackExtractor(t *testing.T) {
	ext := nlu.FallbackExtractor{
		Primary:   nlu.NewModelExtractor(replying(`{"city": "Porto"}`, nil)),
		Secondary: nlu.HeuristicExtractor{},
	}
	got := ext.Extract(context.Background(), nlu.ExtractRequest{
		Message:       "my account_type is savings",
		RequiredSlots: []string{"city", "account_type"},
	})
	assert.Equal(t, map[string]string{"city": "Porto", "account_type": "savings"}, got)
}

func TestKeywordClassifier(t *testing.T) {
	w := bankWorkflow(t)
	c := nlu.KeywordClassifier{}

	tests := []struct {
		name       string
		message    string
		candidates []string
		wantID     string
		wantBasis  nlu.Basis
	}{
		{"single keyword", "I need help please", []string{"help", "account"}, "help", nlu.BasisKeyword},
		{"other keyword", "what is my balance", []string{"help", "account"}, "account", nlu.BasisKeyword},
		{"no keyword", "hmm", []string{"help", "account"}, "", nlu.BasisNoMatch},
		{"short words ignored", "can I", []string{"help", "account"}, "", nlu.BasisNoMatch},
		{"dangling skipped", "my account", []string{"ghost", "account"}, "account", nlu.BasisKeyword},
		{"nothing resolves", "help", []string{"ghost"}, "", nlu.BasisUnresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), nlu.ClassifyRequest{
				Message: tt.message, Candidates: tt.candidates, Workflow: w,
			})
			assert.Equal(t, tt.wantID, got.NodeID)
			assert.Equal(t, tt.wantBasis, got.Basis)
		})
	}
}

func TestKeywordClassifier_TieGoesToFirst(t *testing.T) {
	w := domain.NewWorkflow()
	require.NoError(t, w.AddNode(domain.Node{ID: "a", Type: domain.NodeTypeResponse, Content: "billing"}))
	require.NoError(t, w.AddNode(domain.Node{ID: "b", Type: domain.NodeTypeResponse, Content: "billing"}))

	got := nlu.KeywordClassifier{}.Classify(context.Background(), nlu.ClassifyRequest{
		Message: "billing question", Candidates: []string{"a", "b"}, Workflow: w,
	})
	assert.Equal(t, "a", got.NodeID)
}

func TestModelClassifier(t *testing.T) {
	w := bankWorkflow(t)
	current, _ := w.FindNode("start")
	req := nlu.ClassifyRequest{
		Message:    "what is my balance",
		Candidates: []string{"help", "account"},
		Workflow:   w,
		Current:    &current,
		History:    []domain.Turn{{Role: domain.RoleAssistant, Content: current.Content}},
	}

	t.Run("picks numbered option", func(t *testing.T) {
		gen := replying("The best option is 2.", nil)
		got := nlu.NewModelClassifier(gen, nil).Classify(context.Background(), req)
		assert.Equal(t, "account", got.NodeID)
		assert.Equal(t, nlu.BasisModel, got.Basis)

		prompt := gen.Calls[0].Arguments.Get(1).(ports.GenerateRequest).Prompt
		assert.Contains(t, prompt, "1. Help Request: I can help with several things.")
		assert.Contains(t, prompt, "2. Account Request: Manage your account balance")
		assert.Contains(t, prompt, "Bot: Hello! How can I help you today?")
	})

	t.Run("out of range", func(t *testing.T) {
		got := nlu.NewModelClassifier(replying("7", nil), nlu.KeywordClassifier{}).Classify(context.Background(), req)
		assert.Empty(t, got.NodeID)
		assert.Equal(t, nlu.BasisUnparsable, got.Basis)
		assert.Equal(t, "help", nlu.ResolveTarget(req.Candidates, got).NodeID)
	})

	t.Run("delegate failure without fallback", func(t *testing.T) {
		got := nlu.NewModelClassifier(replying("", domain.ErrDelegateUnavailable), nil).Classify(context.Background(), req)
		assert.Equal(t, nlu.BasisDelegateFailure, got.Basis)
		assert.Equal(t, "help", nlu.ResolveTarget(req.Candidates, got).NodeID)
	})

	t.Run("delegate failure degrades to keywords", func(t *testing.T) {
		got := nlu.NewModelClassifier(replying("", errors.New("timeout")), nlu.KeywordClassifier{}).Classify(context.Background(), req)
		assert.Equal(t, "account", got.NodeID)
		assert.Equal(t, nlu.BasisKeyword, got.Basis)
		assert.True(t, got.Degraded)
	})
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name          string
		outputs       []string
		c             nlu.Classification
		wantID        string
		wantDefaulted bool
	}{
		{"conclusive", []string{"a", "b"}, nlu.Classification{NodeID: "b", Candidates: []string{"a", "b"}, Basis: nlu.BasisModel}, "b", false},
		{"inconclusive", []string{"ghost", "a"}, nlu.Classification{Candidates: []string{"a"}, Basis: nlu.BasisNoMatch}, "a", true},
		{"nothing resolved", []string{"ghost"}, nlu.Classification{Basis: nlu.BasisUnresolved}, "ghost", true},
		{"no outputs", nil, nlu.Classification{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nlu.ResolveTarget(tt.outputs, tt.c)
			assert.Equal(t, tt.wantID, got.NodeID)
			assert.Equal(t, tt.wantDefaulted, got.Defaulted)
		})
	}
}

func TestDecide(t *testing.T) {
	w := bankWorkflow(t)
	res := nlu.Decide(context.Background(), nlu.KeywordClassifier{}, nlu.ClassifyRequest{
		Message: "zzz", Candidates: []string{"help", "account"}, Workflow: w,
	})
	assert.Equal(t, "help", res.NodeID)
	assert.Equal(t, nlu.BasisNoMatch, res.Basis)
	assert.True(t, res.Defaulted)
}

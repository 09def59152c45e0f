package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VAEBZ/context7/internal/config"
	"github.com/VAEBZ/context7/internal/docs"
)

// fakeDocsClient records calls and replays canned answers.
type fakeDocsClient struct {
	searchFn func(ctx context.Context, query string) (*docs.SearchResponse, error)
	fetchFn  func(ctx context.Context, id string, opts docs.FetchOptions) (string, error)

	searchQueries []string
	fetchIDs      []string
	fetchOpts     []docs.FetchOptions
}

func (f *fakeDocsClient) Search(ctx context.Context, query string) (*docs.SearchResponse, error) {
	f.searchQueries = append(f.searchQueries, query)
	if f.searchFn == nil {
		return &docs.SearchResponse{Results: []docs.SearchResult{}}, nil
	}
	return f.searchFn(ctx, query)
}

func (f *fakeDocsClient) Fetch(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
	f.fetchIDs = append(f.fetchIDs, id)
	f.fetchOpts = append(f.fetchOpts, opts)
	if f.fetchFn == nil {
		return "", nil
	}
	return f.fetchFn(ctx, id, opts)
}

func newTestServer(t *testing.T, client DocsClient) *Server {
	t.Helper()
	return NewServer(config.Defaults(), client, config.DefaultMinimumTokens, zerolog.Nop())
}

func callTool(args string) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	}
}

func requireErrorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	return firstText(result)
}

func requireText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError)
	return firstText(result)
}

func TestHandleResolveLibraryID_ShortNameSkipsRemote(t *testing.T) {
	fake := &fakeDocsClient{}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"r"}`))

	require.NoError(t, err)
	text := requireErrorText(t, result)
	assert.Contains(t, text, "at least 2 characters")
	assert.Empty(t, fake.searchQueries)
}

func TestHandleResolveLibraryID_SearchError(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			return nil, errors.New("search request failed with status 503")
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"fastapi"}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "status 503")
}

func TestHandleResolveLibraryID_NilResults(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			return &docs.SearchResponse{}, nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"fastapi"}`))

	require.NoError(t, err)
	assert.Equal(t, msgSearchFailed, requireErrorText(t, result))
}

func TestHandleResolveLibraryID_EmptyResults(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			return &docs.SearchResponse{Results: []docs.SearchResult{}}, nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"fastapi"}`))

	require.NoError(t, err)
	assert.Equal(t, msgNoLibraries, requireErrorText(t, result))
}

func TestHandleResolveLibraryID_Success(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			return &docs.SearchResponse{Results: []docs.SearchResult{
				{ID: "/tiangolo/fastapi", Title: "FastAPI", Description: "Web framework", TotalSnippets: 420, Stars: 70000},
			}}, nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"fast!api"}`))

	require.NoError(t, err)
	text := requireText(t, result)
	assert.Contains(t, text, "Available Libraries (top matches):")
	assert.Contains(t, text, "- Context7-compatible library ID: /tiangolo/fastapi")
	assert.Contains(t, text, "- Title: FastAPI")
	assert.Contains(t, text, "- Code Snippets: 420")
	assert.Contains(t, text, "- GitHub Stars: 70000")

	// Sanitization runs before the query leaves the process.
	require.Len(t, fake.searchQueries, 1)
	assert.Equal(t, "fastapi", fake.searchQueries[0])
}

func TestHandleResolveLibraryID_EmptyAfterSanitizeFallsBack(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			return &docs.SearchResponse{Results: []docs.SearchResult{{ID: "/python/cpython", Title: "Python"}}}, nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"@@"}`))

	require.NoError(t, err)
	requireText(t, result)
	require.Len(t, fake.searchQueries, 1)
	assert.Equal(t, "python 3.11", fake.searchQueries[0])
}

func TestHandleResolveLibraryID_InvalidArguments(t *testing.T) {
	fake := &fakeDocsClient{}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "invalid parameters")
	assert.Empty(t, fake.searchQueries)
}

func TestHandleGetLibraryDocs_ShortIDSkipsRemote(t *testing.T) {
	fake := &fakeDocsClient{}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(), callTool(`{"context7CompatibleLibraryID":"ab"}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "at least 3 characters")
	assert.Empty(t, fake.fetchIDs)
}

func TestHandleGetLibraryDocs_TokensAboveMaximumRejected(t *testing.T) {
	fake := &fakeDocsClient{}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js","tokens":200000}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "between 100 and 100000")
	assert.Empty(t, fake.fetchIDs)
}

func TestHandleGetLibraryDocs_LowTokensClampedNotRejected(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "docs body", nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js","tokens":50}`))

	require.NoError(t, err)
	assert.Equal(t, "docs body", requireText(t, result))
	require.Len(t, fake.fetchOpts, 1)
	assert.Equal(t, config.DefaultMinimumTokens, fake.fetchOpts[0].Tokens)
}

func TestHandleGetLibraryDocs_StringTokensClamped(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "docs body", nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js","tokens":"50"}`))

	require.NoError(t, err)
	requireText(t, result)
	require.Len(t, fake.fetchOpts, 1)
	assert.Equal(t, config.DefaultMinimumTokens, fake.fetchOpts[0].Tokens)
}

func TestHandleGetLibraryDocs_FolderSelectorSplit(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "hooks docs", nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"react!!js?folders=/hooks"}`))

	require.NoError(t, err)
	requireText(t, result)
	require.Len(t, fake.fetchIDs, 1)
	assert.Equal(t, "reactjs", fake.fetchIDs[0])
	assert.Equal(t, "/hooks", fake.fetchOpts[0].Folders)
}

func TestHandleGetLibraryDocs_StrayQuestionMarkStripped(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "docs body", nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"abc?x=1","tokens":10000}`))

	require.NoError(t, err)
	requireText(t, result)
	// The '?' must not survive into the id or it would truncate the fetch
	// URL's query string.
	require.Len(t, fake.fetchIDs, 1)
	assert.Equal(t, "abcx1", fake.fetchIDs[0])
	assert.Empty(t, fake.fetchOpts[0].Folders)
	assert.Equal(t, 10000, fake.fetchOpts[0].Tokens)
}

func TestHandleGetLibraryDocs_VersionResolution(t *testing.T) {
	tests := []struct {
		name        string
		args        string
		wantLang    string
		wantVersion string
	}{
		{
			name:        "lang omitted defaults to python with configured version",
			args:        `{"context7CompatibleLibraryID":"/x/y"}`,
			wantLang:    "python",
			wantVersion: "3.11",
		},
		{
			name:        "explicit python version wins",
			args:        `{"context7CompatibleLibraryID":"/x/y","pythonVersion":"3.12"}`,
			wantLang:    "python",
			wantVersion: "3.12",
		},
		{
			name:        "non-python lang carries no version",
			args:        `{"context7CompatibleLibraryID":"/x/y","lang":"go"}`,
			wantLang:    "go",
			wantVersion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDocsClient{
				fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
					return "docs body", nil
				},
			}
			server := newTestServer(t, fake)

			result, err := server.handleGetLibraryDocs(context.TODO(), callTool(tt.args))

			require.NoError(t, err)
			requireText(t, result)
			require.Len(t, fake.fetchOpts, 1)
			assert.Equal(t, tt.wantLang, fake.fetchOpts[0].Lang)
			assert.Equal(t, tt.wantVersion, fake.fetchOpts[0].Version)
		})
	}
}

func TestHandleGetLibraryDocs_EmptyDocsAdvisesResolve(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "", nil
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js"}`))

	require.NoError(t, err)
	assert.Equal(t, msgNoDocs, requireErrorText(t, result))
}

func TestHandleGetLibraryDocs_FetchError(t *testing.T) {
	fake := &fakeDocsClient{
		fetchFn: func(ctx context.Context, id string, opts docs.FetchOptions) (string, error) {
			return "", errors.New("docs request failed with status 500")
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js"}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "status 500")
}

func TestHandleGetLibraryDocs_BadTokensString(t *testing.T) {
	fake := &fakeDocsClient{}
	server := newTestServer(t, fake)

	result, err := server.handleGetLibraryDocs(context.TODO(),
		callTool(`{"context7CompatibleLibraryID":"/vercel/next.js","tokens":"lots"}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "tokens must be a number")
	assert.Empty(t, fake.fetchIDs)
}

func TestDispatch_PanicBecomesErrorEnvelope(t *testing.T) {
	fake := &fakeDocsClient{
		searchFn: func(ctx context.Context, query string) (*docs.SearchResponse, error) {
			panic("index exploded")
		},
	}
	server := newTestServer(t, fake)

	result, err := server.handleResolveLibraryID(context.TODO(), callTool(`{"libraryName":"fastapi"}`))

	require.NoError(t, err)
	assert.Contains(t, requireErrorText(t, result), "internal error: index exploded")
}

package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sugimori/git-analyzer/internal/config"
	"github.com/sugimori/git-analyzer/internal/domain"
)

var testRef = domain.RepositoryRef{Owner: "octocat", Name: "Hello-World"}

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, token string, handler http.Handler) (Fetcher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Token:               token,
		BaseURL:             server.URL,
		ContributorsPerPage: config.DefaultContributorsPerPage,
		CommitsPerPage:      config.DefaultCommitsPerPage,
	}
	gw, err := NewGitHubGateway(cfg, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	return gw, server
}

func TestGitHubGateway_FetchMetadata(t *testing.T) {
	testCases := []struct {
		name         string
		handlerFunc  func(w http.ResponseWriter, r *http.Request)
		expected     *domain.RepositoryMetadata
		expectedCode int
		expectError  bool
	}{
		{
			name: "happy path - maps repository fields",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/octocat/Hello-World", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{
					"full_name": "octocat/Hello-World",
					"description": "My first repository",
					"stargazers_count": 80,
					"forks_count": 9,
					"default_branch": "master",
					"size": 108,
					"owner": {"avatar_url": "https://avatars.example/u/1"}
				}`)
			},
			expected: &domain.RepositoryMetadata{
				FullName:      "octocat/Hello-World",
				Description:   "My first repository",
				Stars:         80,
				Forks:         9,
				DefaultBranch: "master",
				SizeKB:        108,
				OwnerAvatar:   "https://avatars.example/u/1",
			},
		},
		{
			name: "error case - repository not found",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:  true,
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw, _ := setupTestGateway(t, "", http.HandlerFunc(tc.handlerFunc))
			meta, err := gw.FetchMetadata(context.Background(), testRef)
			if tc.expectError {
				var apiErr *domain.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, domain.StageMetadata, apiErr.Stage)
				assert.Equal(t, tc.expectedCode, apiErr.StatusCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, meta)
			}
		})
	}
}

func TestGitHubGateway_FetchLanguages(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/Hello-World/languages", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"JavaScript": 80, "CSS": 20}`)
	}
	gw, _ := setupTestGateway(t, "", http.HandlerFunc(handler))

	languages, err := gw.FetchLanguages(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"JavaScript": 80, "CSS": 20}, languages)
}

func TestGitHubGateway_FetchContributors(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/Hello-World/contributors", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("anon"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[{"login": "alice", "contributions": 5}, {"contributions": 2}]`)
	}
	gw, _ := setupTestGateway(t, "", http.HandlerFunc(handler))

	contributors, err := gw.FetchContributors(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, contributors, 2)
	assert.Equal(t, "alice", contributors[0].GetLogin())
	assert.Equal(t, 5, contributors[0].GetContributions())
	assert.Empty(t, contributors[1].GetLogin())
}

func TestGitHubGateway_FetchCommits(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/Hello-World/commits", r.URL.Path)
		assert.Equal(t, "master", r.URL.Query().Get("sha"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[{"commit": {"author": {"date": "2024-01-01T10:00:00Z"}}}]`)
	}
	gw, _ := setupTestGateway(t, "", http.HandlerFunc(handler))

	commits, err := gw.FetchCommits(context.Background(), testRef, "master")
	require.NoError(t, err)
	require.Len(t, commits, 1)
}

func TestGitHubGateway_AuthorizationHeader(t *testing.T) {
	t.Run("token attaches bearer header", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{}`)
		}
		gw, _ := setupTestGateway(t, "secret", http.HandlerFunc(handler))
		_, err := gw.FetchLanguages(context.Background(), testRef)
		assert.NoError(t, err)
	})

	t.Run("blank token sends no header", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{}`)
		}
		gw, _ := setupTestGateway(t, "   ", http.HandlerFunc(handler))
		_, err := gw.FetchLanguages(context.Background(), testRef)
		assert.NoError(t, err)
	})
}

func TestGitHubGateway_TransportFailure(t *testing.T) {
	// Point the gateway at a server that is already closed.
	gw, server := setupTestGateway(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := gw.FetchMetadata(context.Background(), testRef)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.StageMetadata, apiErr.Stage)
	assert.Zero(t, apiErr.StatusCode)
}

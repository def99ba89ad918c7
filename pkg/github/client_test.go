package github

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local test server
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-token")
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.client.BaseURL = baseURL

	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token")

	assert.NotNil(t, client)
	assert.Implements(t, (*APIClient)(nil), client)
}

func TestClient_ListOrgRepositories_Paginated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "private", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":3,"name":"lib-two","full_name":"test-org/lib-two"}]`)
			return
		}
		w.Header().Set("Link", `</orgs/test-org/repos?page=2>; rel="next"`)
		fmt.Fprint(w, `[{"id":1,"name":"app-one","private":true},{"id":2,"name":"app-legacy","fork":true}]`)
	})

	client := newTestClient(t, mux)
	repos, err := client.ListOrgRepositories("test-org", RepoTypePrivate)

	require.NoError(t, err)
	require.Len(t, repos, 3, "pages must be concatenated")
	assert.Equal(t, Repository{ID: 1, Name: "app-one", Private: true}, repos[0])
	assert.Equal(t, Repository{ID: 2, Name: "app-legacy", Fork: true}, repos[1])
	assert.Equal(t, Repository{ID: 3, Name: "lib-two", FullName: "test-org/lib-two"}, repos[2])
}

func TestClient_ListRunnerGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":2,"runner_groups":[
			{"id":10,"name":"ci-group","visibility":"selected"},
			{"id":11,"name":"default","visibility":"all","default":true}
		]}`)
	})

	client := newTestClient(t, mux)
	groups, err := client.ListRunnerGroups("test-org")

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, RunnerGroup{ID: 10, Name: "ci-group", Visibility: "selected"}, groups[0])
	assert.Equal(t, RunnerGroup{ID: 11, Name: "default", Visibility: "all", Default: true}, groups[1])
}

func TestClient_GetGroupRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups/10/repositories", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":2,"repositories":[{"id":3,"name":"lib-two"},{"id":7,"name":"tool"}]}`)
	})

	client := newTestClient(t, mux)
	ids, err := client.GetGroupRepositories("test-org", 10)

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)
}

func TestClient_SetGroupRepositories(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups/10/repositories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)
	err := client.SetGroupRepositories("test-org", 10, []int64{3, 1})

	require.NoError(t, err)
	assert.Contains(t, gotBody, `"selected_repository_ids":[3,1]`)
}

func TestClient_SetGroupRepositories_EmptySet(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups/10/repositories", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)
	err := client.SetGroupRepositories("test-org", 10, nil)

	require.NoError(t, err)
	// A nil set still serializes as an explicit empty list
	assert.Contains(t, gotBody, `"selected_repository_ids":[]`)
}

func TestClient_CreateGroup(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":20,"name":"new-group","visibility":"selected"}`)
	})

	client := newTestClient(t, mux)
	err := client.CreateGroup("test-org", "new-group", []int64{1})

	require.NoError(t, err)
	assert.Contains(t, gotBody, `"name":"new-group"`)
	assert.Contains(t, gotBody, `"visibility":"selected"`)
	assert.Contains(t, gotBody, `"selected_repository_ids":[1]`)
}

func TestClient_WrapsAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/test-org/actions/runner-groups", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	client := newTestClient(t, mux)
	_, err := client.ListRunnerGroups("test-org")

	require.Error(t, err)
	ghErr, ok := err.(*GitHubError)
	require.True(t, ok, "expected GitHubError, got %T", err)
	assert.Equal(t, ErrorTypeNotFound, ghErr.Type)
	assert.Contains(t, ghErr.Resource, "test-org")
}

func TestNewDryRunClient_SuppressesMutations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("mutating request %s %s reached the server", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count":0,"runner_groups":[]}`)
	}))
	defer server.Close()

	client := NewDryRunClient("test-token")
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.client.BaseURL = baseURL

	// Reads still reach the server
	groups, err := client.ListRunnerGroups("test-org")
	require.NoError(t, err)
	assert.Empty(t, groups)

	// Mutations are answered locally
	require.NoError(t, client.SetGroupRepositories("test-org", 10, []int64{1}))
	require.NoError(t, client.CreateGroup("test-org", "new-group", []int64{1}))
}

package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"apimanager/internal/config"
	"apimanager/internal/container"
	"apimanager/internal/errors"
	"apimanager/internal/git"
	"apimanager/internal/operations"
	"apimanager/internal/paths"
	"apimanager/internal/testutil"

	"github.com/docker/docker/errdefs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler    http.Handler
	containers *testutil.MockContainerManager
	git        *testutil.MockGitManager
	base       string
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Repos.BasePath = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	containerMgr := testutil.NewMockContainerManager()
	gitMgr := testutil.NewMockGitManager()

	srv := New(cfg,
		operations.NewContainerOperations(containerMgr),
		operations.NewRepositoryOperations(gitMgr, paths.NewResolver(cfg.Repos.BasePath)),
	)

	return &testEnv{
		handler:    srv.Handler(),
		containers: containerMgr,
		git:        gitMgr,
		base:       cfg.Repos.BasePath,
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := testutil.Do(t, env.handler, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"api-manager"}`, rec.Body.String())
	env.containers.AssertNotCalled(t, "List", mock.Anything)
}

func TestHandleListContainers(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*testutil.MockContainerManager)
		expectedStatus int
		checkResponse  func(t *testing.T, body string)
	}{
		{
			name: "list all containers",
			setupMocks: func(m *testutil.MockContainerManager) {
				m.On("List", mock.Anything).Return([]container.Summary{
					{ID: "abc123", Names: []string{"/web"}, Image: "nginx:latest", State: "running", Status: "Up 2 hours"},
					{ID: "def456", Names: []string{"/db"}, Image: "postgres:16", State: "exited", Status: "Exited (0) 1 hour ago"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body string) {
				var got []map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(body), &got))
				require.Len(t, got, 2)
				assert.Equal(t, "abc123", got[0]["Id"])
				assert.Equal(t, "running", got[0]["State"])
				assert.Equal(t, "exited", got[1]["State"])
			},
		},
		{
			name: "empty container list",
			setupMocks: func(m *testutil.MockContainerManager) {
				m.On("List", mock.Anything).Return([]container.Summary{}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body string) {
				assert.JSONEq(t, `[]`, body)
			},
		},
		{
			name: "runtime unavailable",
			setupMocks: func(m *testutil.MockContainerManager) {
				m.On("List", mock.Anything).Return(nil, errors.RuntimeUnavailable(
					stderrors.New("Cannot connect to the Docker daemon at unix:///var/run/docker.sock")))
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, body string) {
				assert.Contains(t, body, "Cannot connect to the Docker daemon")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			tt.setupMocks(env.containers)

			rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/containers", nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.checkResponse(t, rec.Body.String())
		})
	}
}

func TestHandleContainerActions(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		method          string
		mockErr         error
		expectedStatus  int
		expectedMessage string
	}{
		{"start", "/api/manager/containers/web/start", "Start", nil, http.StatusOK, MsgContainerStarted},
		{"stop", "/api/manager/containers/web/stop", "Stop", nil, http.StatusOK, MsgContainerStopped},
		{
			name:            "start unknown container",
			path:            "/api/manager/containers/web/start",
			method:          "Start",
			mockErr:         errors.ContainerNotFound("web", errdefs.NotFound(stderrors.New("No such container: web"))),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "No such container: web",
		},
		{
			name:            "stop runtime failure",
			path:            "/api/manager/containers/web/stop",
			method:          "Stop",
			mockErr:         errors.RuntimeError(stderrors.New("cannot stop container: permission denied")),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "cannot stop container: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.containers.On(tt.method, mock.Anything, "web").Return(tt.mockErr)

			rec := testutil.Do(t, env.handler, http.MethodPost, tt.path, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp MessageResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Message)
			} else {
				assert.Equal(t, tt.expectedMessage, testutil.ParseError(t, rec))
			}
			env.containers.AssertExpectations(t)
		})
	}
}

func TestHandleGetContainerLogs(t *testing.T) {
	env := newTestEnv(t, nil)
	env.containers.On("Logs", mock.Anything, "web", 100).Return("booting\nready\n", nil)

	rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/containers/web/logs", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
	assert.Equal(t, "booting\nready\n", rec.Body.String())
}

func TestHandleCloneRepository(t *testing.T) {
	t.Run("clone then repeat conflicts", func(t *testing.T) {
		env := newTestEnv(t, nil)
		target := filepath.Join(env.base, "r1")
		env.git.On("Clone", mock.Anything, "https://example.com/r.git", target).
			Run(func(args mock.Arguments) {
				require.NoError(t, os.MkdirAll(args.String(2), 0755))
			}).
			Return(nil).Once()

		body := map[string]string{"repoUrl": "https://example.com/r.git", "folderName": "r1"}

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/clone", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"message":"Cloned successfully","path":%q}`, target), rec.Body.String())

		rec = testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/clone", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":"Repo already exists"}`, rec.Body.String())

		env.git.AssertNumberOfCalls(t, "Clone", 1)
	})

	t.Run("missing field", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/clone",
			map[string]string{"repoUrl": "https://example.com/r.git"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errors.MsgMissingParams, testutil.ParseError(t, rec))
		env.git.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.DoRaw(t, env.handler, http.MethodPost, "/api/manager/git/clone", `{"repoUrl":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.git.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("absolute folder name", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/clone",
			map[string]string{"repoUrl": "https://example.com/r.git", "folderName": "/etc"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.git.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleRepositoryStatus(t *testing.T) {
	t.Run("reports status", func(t *testing.T) {
		env := newTestEnv(t, nil)
		require.NoError(t, os.Mkdir(filepath.Join(env.base, "r1"), 0755))
		env.git.On("Status", mock.Anything, filepath.Join(env.base, "r1")).Return(&git.StatusReport{
			Current:  "main",
			Tracking: "origin/main",
			Files:    []git.FileStatus{},
			IsClean:  true,
		}, nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/git/status/r1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "main", got["current"])
		assert.Equal(t, "origin/main", got["tracking"])
		assert.Equal(t, true, got["isClean"])
	})

	t.Run("missing folder", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/git/status/absent", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Repo not found"}`, rec.Body.String())
		env.git.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
	})

	t.Run("encoded traversal", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/git/status/..%2F..%2Fetc", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.git.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
	})

	t.Run("percent in folder name round-trips", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.git.On("Clone", mock.Anything, "https://example.com/r.git", mock.Anything).
			Run(func(args mock.Arguments) {
				require.NoError(t, os.MkdirAll(args.String(2), 0755))
			}).
			Return(nil)

		tests := []struct {
			folder string
			path   string
		}{
			{"100%", "/api/manager/git/status/100%25"},
			{"%41", "/api/manager/git/status/%2541"},
		}

		for _, tt := range tests {
			rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/clone",
				map[string]string{"repoUrl": "https://example.com/r.git", "folderName": tt.folder})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			target := filepath.Join(env.base, tt.folder)
			env.git.On("Status", mock.Anything, target).Return(&git.StatusReport{
				Current: "main",
				Files:   []git.FileStatus{},
				IsClean: true,
			}, nil).Once()

			rec = testutil.Do(t, env.handler, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusOK, rec.Code, tt.folder)
		}

		env.git.AssertCalled(t, "Status", mock.Anything, filepath.Join(env.base, "100%"))
		env.git.AssertCalled(t, "Status", mock.Anything, filepath.Join(env.base, "%41"))
		env.git.AssertNotCalled(t, "Status", mock.Anything, filepath.Join(env.base, "A"))
	})

	t.Run("server errors hide the base path", func(t *testing.T) {
		env := newTestEnv(t, nil)
		repo := filepath.Join(env.base, "r1")
		require.NoError(t, os.Mkdir(repo, 0755))
		env.git.On("Status", mock.Anything, repo).Return(nil, errors.VCSError(
			fmt.Errorf("open %s/.git/index: permission denied\ngoroutine 1 [running]", repo)))

		rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/git/status/r1", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		msg := testutil.ParseError(t, rec)
		assert.Equal(t, "open r1/.git/index: permission denied", msg)
		assert.NotContains(t, msg, env.base)
	})
}

func TestHandlePullRepository(t *testing.T) {
	t.Run("pull successful", func(t *testing.T) {
		env := newTestEnv(t, nil)
		require.NoError(t, os.Mkdir(filepath.Join(env.base, "r1"), 0755))
		env.git.On("Pull", mock.Anything, filepath.Join(env.base, "r1")).Return(nil)

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/pull/r1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Pull successful"}`, rec.Body.String())
	})

	t.Run("missing folder", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/git/pull/absent", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env.git.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything)
	})
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := testutil.Do(t, env.handler, http.MethodGet, "/api/manager/unknown", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, testutil.ParseError(t, rec))
}

func TestMiddleware(t *testing.T) {
	t.Run("request id and security headers", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/health", nil)

		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	})

	t.Run("incoming request id is kept", func(t *testing.T) {
		env := newTestEnv(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-42")
		rec := httptest.NewRecorder()

		env.handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Server.BodyLimit = "1K"
		})
		payload := fmt.Sprintf(`{"repoUrl":"https://example.com/r.git","folderName":"%s"}`, strings.Repeat("a", 2048))

		rec := testutil.DoRaw(t, env.handler, http.MethodPost, "/api/manager/git/clone", payload)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		env.git.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOperationContext(t *testing.T) {
	t.Run("client disconnect does not cancel the operation", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.containers.On("Start", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		}), "web").Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodPost, "/api/manager/containers/web/start", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		env.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env.containers.AssertExpectations(t)
	})

	t.Run("timeout applied when configured", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Server.OperationTimeout = config.Duration(time.Minute)
		})
		env.containers.On("Stop", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), "web").Return(nil)

		rec := testutil.Do(t, env.handler, http.MethodPost, "/api/manager/containers/web/stop", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		env.containers.AssertExpectations(t)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		env := newTestEnv(t, nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/metrics", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("records requests when enabled", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Server.MetricsEnabled = true
		})

		testutil.Do(t, env.handler, http.MethodGet, "/health", nil)
		testutil.Do(t, env.handler, http.MethodGet, "/api/manager/git/status/absent", nil)

		rec := testutil.Do(t, env.handler, http.MethodGet, "/metrics", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `apimanager_http_requests_total{method="GET",route="/health",status="200"} 1`)
		assert.Contains(t, body, `route="/api/manager/git/status/:folderName",status="404"`)
		assert.Contains(t, body, "apimanager_http_request_duration_seconds")
	})
}

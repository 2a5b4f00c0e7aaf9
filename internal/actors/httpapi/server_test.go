package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"vacancyboard/internal/actors/httpapi"
	"vacancyboard/internal/actors/memory"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.DB) {
	t.Helper()

	db := memory.New()
	deadline := time.Date(2026, 9, 30, 17, 30, 0, 0, time.UTC)
	db.SeedVacancies([]model.Vacancy{
		{
			ID:           "vac-1",
			Title:        "Backend Engineer",
			Body:         "Build services in Go and SQL",
			Type:         "full_time",
			Deadline:     &deadline,
			URL:          "https://jobs.example.com/vac-1",
			EmployerName: "Acme",
			Locations:    []string{"Oslo"},
			Skills:       []string{"go", "sql"},
			ContactEmail: "hiring@acme.example",
		},
		{
			ID:           "vac-2",
			Title:        "Data Analyst",
			Body:         "Dashboards and reporting",
			Type:         "part_time",
			URL:          "https://jobs.example.com/vac-2",
			EmployerName: "Beta",
			Locations:    []string{"Bergen"},
			Skills:       []string{"sql"},
		},
	})
	db.SeedKeywords([]string{"go", "sql"})

	server := httpapi.NewServer(httpapi.ServerArgs{
		Vacancies:  usecase.NewVacancyService(usecase.VacancyServiceArgs{Repository: db}),
		Comments:   usecase.NewCommentService(usecase.CommentServiceArgs{Comments: db, Vacancies: db}),
		Identities: usecase.NewIdentityService(usecase.IdentityServiceArgs{Store: db}),
	})

	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)
	return ts, db
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, dst any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func deleteJSON(t *testing.T, url string, body any, dst any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodDelete, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListVacancies(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("no facets returns the full snapshot", func(t *testing.T) {
		var body struct {
			Total     int `json:"total"`
			Vacancies []struct {
				ID           string `json:"vacancy_id"`
				BodyMarkdown string `json:"body_markdown"`
			} `json:"vacancies"`
		}
		resp := getJSON(t, ts.URL+"/vacancies", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 2, body.Total)
		require.Equal(t, "vac-1", body.Vacancies[0].ID)
		require.Equal(t, "vac-2", body.Vacancies[1].ID)
		require.Equal(t, "Build services in **Go** and **SQL**", body.Vacancies[0].BodyMarkdown)
	})

	t.Run("employer facet narrows the snapshot", func(t *testing.T) {
		var body struct {
			Total int `json:"total"`
		}
		resp := getJSON(t, ts.URL+"/vacancies?employer=Beta", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, body.Total)
	})

	t.Run("deadline range excludes open-ended postings", func(t *testing.T) {
		var body struct {
			Total     int `json:"total"`
			Vacancies []struct {
				ID string `json:"vacancy_id"`
			} `json:"vacancies"`
		}
		resp := getJSON(t, ts.URL+"/vacancies?deadline_from=2026-09-01&deadline_to=2026-10-01", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, body.Total)
		require.Equal(t, "vac-1", body.Vacancies[0].ID)
	})

	t.Run("upper bound includes postings due later that day", func(t *testing.T) {
		// vac-1 is due 2026-09-30 at 17:30; the date bound keeps it in
		var body struct {
			Total     int `json:"total"`
			Vacancies []struct {
				ID string `json:"vacancy_id"`
			} `json:"vacancies"`
		}
		resp := getJSON(t, ts.URL+"/vacancies?deadline_from=2026-09-01&deadline_to=2026-09-30", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, body.Total)
		require.Equal(t, "vac-1", body.Vacancies[0].ID)
	})

	t.Run("malformed deadline is a bad request", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/vacancies?deadline_from=soon", nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetVacancy(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("known posting", func(t *testing.T) {
		var body struct {
			ID       string `json:"vacancy_id"`
			Deadline string `json:"deadline"`
		}
		resp := getJSON(t, ts.URL+"/vacancies/vac-1", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "vac-1", body.ID)
		require.Equal(t, "2026-09-30", body.Deadline)
	})

	t.Run("unknown posting is not found", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/vacancies/missing", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	var posted struct {
		ID     string `json:"comment_id"`
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	resp := postJSON(t, ts.URL+"/vacancies/vac-1/comments", map[string]string{
		"author_email": "Reader@Example.com",
		"text":         "Is remote work possible?",
	}, &posted)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "reader@example.com", posted.Author)
	require.Equal(t, "Is remote work possible?", posted.Text)

	var anon struct {
		Author string `json:"author"`
	}
	resp = postJSON(t, ts.URL+"/vacancies/vac-1/comments", map[string]string{
		"text": "Asking for a friend",
	}, &anon)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, model.AnonymousAuthor, anon.Author)

	var thread struct {
		Comments []struct {
			ID       string          `json:"comment_id"`
			Deletion json.RawMessage `json:"deletion"`
		} `json:"comments"`
	}
	resp = getJSON(t, ts.URL+"/vacancies/vac-1/comments", &thread)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, thread.Comments, 2)
	require.Equal(t, posted.ID, thread.Comments[0].ID)
	require.Nil(t, thread.Comments[0].Deletion)

	t.Run("only the contact may moderate", func(t *testing.T) {
		resp := deleteJSON(t, ts.URL+"/comments/"+posted.ID, map[string]string{
			"moderator_email": "reader@example.com",
		}, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("the contact soft-deletes", func(t *testing.T) {
		resp := deleteJSON(t, ts.URL+"/comments/"+posted.ID, map[string]string{
			"moderator_email": "hiring@acme.example",
		}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var thread struct {
			Comments []struct {
				ID       string `json:"comment_id"`
				Deletion *struct {
					By string `json:"by"`
				} `json:"deletion"`
			} `json:"comments"`
		}
		getJSON(t, ts.URL+"/vacancies/vac-1/comments", &thread)
		require.Len(t, thread.Comments, 2)
		require.NotNil(t, thread.Comments[0].Deletion)
		require.Equal(t, "hiring@acme.example", thread.Comments[0].Deletion.By)
		require.Nil(t, thread.Comments[1].Deletion)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/vacancies/vac-1/comments", map[string]string{"text": "   "}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown vacancy is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/vacancies/missing/comments", map[string]string{"text": "hello"}, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed comment id is a bad request", func(t *testing.T) {
		resp := deleteJSON(t, ts.URL+"/comments/not-a-uuid", map[string]string{
			"moderator_email": "hiring@acme.example",
		}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestResolveIdentity(t *testing.T) {
	ts, _ := newTestServer(t)

	var first struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	resp := postJSON(t, ts.URL+"/identities/resolve", map[string]string{"email": "Someone@Example.com"}, &first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "someone@example.com", first.Email)
	require.Equal(t, model.RoleUser, first.Role)
	require.NotEmpty(t, first.UserID)

	var second struct {
		UserID string `json:"user_id"`
	}
	resp = postJSON(t, ts.URL+"/identities/resolve", map[string]string{"email": "someone@example.com"}, &second)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, first.UserID, second.UserID)

	t.Run("unparsable email is a bad request", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/identities/resolve", map[string]string{"email": "not an address"}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/identities/resolve", map[string]string{"mail": "x@example.com"}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCommentsAcrossVacanciesStaySeparate(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts.URL+"/vacancies/vac-1/comments", map[string]string{
			"text": fmt.Sprintf("comment %d", i),
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := postJSON(t, ts.URL+"/vacancies/vac-2/comments", map[string]string{"text": "other thread"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var thread struct {
		Comments []struct {
			JobID string `json:"job_id"`
		} `json:"comments"`
	}
	getJSON(t, ts.URL+"/vacancies/vac-2/comments", &thread)
	require.Len(t, thread.Comments, 1)
	require.Equal(t, "vac-2", thread.Comments[0].JobID)
}

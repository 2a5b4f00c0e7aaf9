package httpapi

import (
	"time"

	"vacancyboard/internal/core/model"
)

const dateLayout = "2006-01-02"

type vacancyResponse struct {
	ID           string   `json:"vacancy_id"`
	Title        string   `json:"title"`
	Body         string   `json:"body_text"`
	BodyMarkdown string   `json:"body_markdown"`
	Type         string   `json:"type"`
	Deadline     string   `json:"deadline,omitempty"`
	URL          string   `json:"url"`
	EmployerName string   `json:"employer_name"`
	Locations    []string `json:"location_set,omitempty"`
	Skills       []string `json:"skill_set,omitempty"`
	ContactEmail string   `json:"contact_email,omitempty"`
	ContactPhone string   `json:"contact_phone,omitempty"`
}

type listVacanciesResponse struct {
	Total     int               `json:"total"`
	Vacancies []vacancyResponse `json:"vacancies"`
}

type commentResponse struct {
	ID        string          `json:"comment_id"`
	JobID     string          `json:"job_id"`
	Author    string          `json:"author"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_at"`
	Deletion  *deletionDetail `json:"deletion,omitempty"`
}

type deletionDetail struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

type listCommentsResponse struct {
	Comments []commentResponse `json:"comments"`
}

type postCommentRequest struct {
	// AuthorEmail is optional; absent means an anonymous comment.
	AuthorEmail string `json:"author_email,omitempty"`
	Text        string `json:"text"`
}

type deleteCommentRequest struct {
	// ModeratorEmail identifies the acting moderator.
	ModeratorEmail string `json:"moderator_email"`
}

type resolveIdentityRequest struct {
	Email string `json:"email"`
}

type identityResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func vacancyToResponse(vacancy model.Vacancy, keywords []string) vacancyResponse {
	resp := vacancyResponse{
		ID:           vacancy.ID,
		Title:        vacancy.Title,
		Body:         vacancy.Body,
		BodyMarkdown: HighlightKeywords(vacancy.Body, keywords),
		Type:         vacancy.Type,
		URL:          vacancy.URL,
		EmployerName: vacancy.EmployerName,
		Locations:    vacancy.Locations,
		Skills:       vacancy.Skills,
		ContactEmail: vacancy.ContactEmail,
		ContactPhone: vacancy.ContactPhone,
	}
	if vacancy.Deadline != nil {
		resp.Deadline = vacancy.Deadline.Format(dateLayout)
	}
	return resp
}

func vacanciesToResponse(vacancies []model.Vacancy, keywords []string) listVacanciesResponse {
	resp := listVacanciesResponse{
		Total:     len(vacancies),
		Vacancies: make([]vacancyResponse, len(vacancies)),
	}
	for i, v := range vacancies {
		resp.Vacancies[i] = vacancyToResponse(v, keywords)
	}
	return resp
}

func commentToResponse(comment model.Comment) commentResponse {
	resp := commentResponse{
		ID:        comment.ID.String(),
		JobID:     comment.JobID,
		Author:    comment.Author,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Deletion != nil {
		resp.Deletion = &deletionDetail{By: comment.Deletion.By, At: comment.Deletion.At}
	}
	return resp
}

func commentsToResponse(comments []model.Comment) listCommentsResponse {
	resp := listCommentsResponse{Comments: make([]commentResponse, len(comments))}
	for i, c := range comments {
		resp.Comments[i] = commentToResponse(c)
	}
	return resp
}

func identityToResponse(identity model.Identity) identityResponse {
	return identityResponse{
		UserID:    identity.ID.String(),
		Email:     identity.Email,
		Role:      identity.Role,
		CreatedAt: identity.CreatedAt,
	}
}

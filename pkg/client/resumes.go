package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
)

const resumesPath = "/api/core/resumes"

func (c *Client) ListResumes(ctx context.Context, mine bool) ([]*domain.Resume, error) {
	var query url.Values
	if mine {
		query = url.Values{"myResumes": {"true"}}
	}
	var out []*domain.Resume
	err := c.do(ctx, http.MethodGet, resumesPath, query, nil, &out, "Failed to fetch resumes")
	return out, err
}

func (c *Client) GetResume(ctx context.Context, id uuid.UUID) (*domain.ResumeDetail, error) {
	var out domain.ResumeDetail
	if err := c.do(ctx, http.MethodGet, resumesPath+"/"+id.String(), nil, nil, &out, "Failed to fetch resume"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateResume(ctx context.Context, req dto.ResumeRequest) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, http.MethodPost, resumesPath, nil, req, &out, "Failed to create resume"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateResume(ctx context.Context, id uuid.UUID, req dto.ResumeRequest) (*domain.Resume, error) {
	var out domain.Resume
	if err := c.do(ctx, http.MethodPut, resumesPath+"/"+id.String(), nil, req, &out, "Failed to update resume"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteResume(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, resumesPath+"/"+id.String(), nil, nil, nil, "Failed to delete resume")
}

func sectionPath(resumeID uuid.UUID, kind domain.SectionKind) string {
	return fmt.Sprintf("%s/%s/%s", resumesPath, resumeID, kind)
}

// ListSection fetches every item of one section kind, for example
// ListSection[domain.Skill](ctx, c, resumeID, domain.SectionSkills).
func ListSection[T any](ctx context.Context, c *Client, resumeID uuid.UUID, kind domain.SectionKind) ([]T, error) {
	var out dto.SectionListResponse[T]
	if err := c.do(ctx, http.MethodGet, sectionPath(resumeID, kind), nil, nil, &out, "Failed to fetch "+string(kind)); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func CreateSection[T any](ctx context.Context, c *Client, resumeID uuid.UUID, kind domain.SectionKind, item T) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, sectionPath(resumeID, kind), nil, item, &out, "Failed to create "+string(kind)); err != nil {
		return nil, err
	}
	return &out, nil
}

func UpdateSection[T any](ctx context.Context, c *Client, resumeID, id uuid.UUID, kind domain.SectionKind, item T) (*T, error) {
	var out T
	path := sectionPath(resumeID, kind) + "/" + id.String()
	if err := c.do(ctx, http.MethodPut, path, nil, item, &out, "Failed to update "+string(kind)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSection(ctx context.Context, resumeID, id uuid.UUID, kind domain.SectionKind) error {
	path := sectionPath(resumeID, kind) + "/" + id.String()
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "Failed to delete "+string(kind))
}

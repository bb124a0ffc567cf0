package api

import (
	"context"
	"fmt"
)

// Places

func (c *Client) GetPlaces(ctx context.Context) ([]Place, error) {
	var out []Place
	if err := c.doJSON(ctx, "GET", "/api/v1/places/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPlace(ctx context.Context, id int) (*Place, error) {
	var out Place
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/places/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePlace(ctx context.Context, p Place) error {
	return c.doJSON(ctx, "POST", "/api/v1/places/", p, nil)
}

func (c *Client) UpdatePlace(ctx context.Context, id int, p Place) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/v1/places/%d", id), p, nil)
}

func (c *Client) DeletePlace(ctx context.Context, id int) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/v1/places/%d", id), nil, nil)
}

// Blog posts

func (c *Client) GetBlogs(ctx context.Context) ([]Blog, error) {
	var out []Blog
	if err := c.doJSON(ctx, "GET", "/api/v1/blog/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBlog(ctx context.Context, id int) (*Blog, error) {
	var out Blog
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/blog/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBlog(ctx context.Context, b Blog) error {
	return c.doJSON(ctx, "POST", "/api/v1/blog/", b, nil)
}

func (c *Client) UpdateBlog(ctx context.Context, id int, b Blog) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/v1/blog/%d", id), b, nil)
}

func (c *Client) DeleteBlog(ctx context.Context, id int) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/v1/blog/%d", id), nil, nil)
}

// Comments

func (c *Client) GetComments(ctx context.Context, blogID int) ([]Comment, error) {
	var out []Comment
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/comments/%d", blogID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment posts a comment. The caller must not surface the comment as
// accepted until this returns nil; local state is confirmed only by the
// server response.
func (c *Client) CreateComment(ctx context.Context, blogID int, cm Comment) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/api/v1/comments/%d", blogID), cm, nil)
}

func (c *Client) UpdateComment(ctx context.Context, blogID, commentID int, cm Comment) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/v1/comments/%d/%d", blogID, commentID), cm, nil)
}

func (c *Client) DeleteComment(ctx context.Context, blogID, commentID int) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/v1/comments/%d/%d", blogID, commentID), nil, nil)
}

// Users

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, "GET", "/api/v1/users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var out User
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/v1/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, u User) error {
	return c.doJSON(ctx, "POST", "/api/v1/users/", u, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int, u User) error {
	return c.doJSON(ctx, "PUT", fmt.Sprintf("/api/v1/users/%d", id), u, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/v1/users/%d", id), nil, nil)
}

// VerifyEmail confirms an emailed verification code.
func (c *Client) VerifyEmail(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.doJSON(ctx, "POST", "/api/v1/users/verify-email/", body, nil)
}

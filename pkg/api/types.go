package api

import "time"

// Place is one travel waypoint.
type Place struct {
	ID       int        `json:"id,omitempty"`
	Name     string     `json:"place_name"`
	Info     string     `json:"place_info"`
	Lat      float64    `json:"place_lat"`
	Lng      float64    `json:"place_lng"`
	IconType int        `json:"place_icon_type"`
	Address  string     `json:"place_address"`
	Phone    string     `json:"place_phone"`
	Email    string     `json:"place_email"`
	Website  string     `json:"place_website"`
	Arrive   *time.Time `json:"place_arrive,omitempty"`
	Depart   *time.Time `json:"place_depart,omitempty"`
	HideInfo bool       `json:"place_hide_info"`
}

// Blog is one blog post.
type Blog struct {
	ID        int       `json:"id,omitempty"`
	Subject   string    `json:"blog_subject"`
	Body      string    `json:"blog_body"`
	OwnerName string    `json:"blog_owner_name"`
	OwnerMail string    `json:"blog_owner_email"`
	Category  string    `json:"blog_category"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Comment is one blog comment.
type Comment struct {
	ID       int    `json:"id,omitempty"`
	BlogID   int    `json:"comment_blog_id"`
	Name     string `json:"comment_name"`
	Email    string `json:"comment_email"`
	Body     string `json:"comment_body"`
	Approved bool   `json:"comment_approved"`
}

// User is one account record.
type User struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"user_name"`
	Password string `json:"user_password,omitempty"`
	Email    string `json:"user_email"`
	Role     string `json:"user_role"`
	Approved bool   `json:"user_approved"`
}

// FileInfo is one directory entry returned by the manuals listing endpoint:
// a file or a directory, discriminated by Type.
type FileInfo struct {
	Name            string `json:"name"`
	Type            string `json:"type"` // "file" or "directory"
	Size            int64  `json:"size"`
	FileCount       int64  `json:"fileCount"`
	Modified        string `json:"modified"`
	Extension       string `json:"extension"`
	IsDownloadable  bool   `json:"isDownloadable"`
	ParentDirectory string `json:"parentDirectory"`
	FullPath        string `json:"fullPath"`
}

// YearMakeStructure lists the models available for one year/make.
type YearMakeStructure struct {
	YearMake   string   `json:"yearMake"`
	Models     []string `json:"models"`
	ModelCount int      `json:"modelCount"`
	Error      string   `json:"error,omitempty"`
}

// DirectoryStructure is the full manuals tree summary.
type DirectoryStructure struct {
	TotalYearMakes int                 `json:"totalYearMakes"`
	TotalModels    int                 `json:"totalModels"`
	Structure      []YearMakeStructure `json:"structure"`
}

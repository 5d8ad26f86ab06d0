package forms

import "net/http"

// PostForm is the create/edit form for blog posts. ImageURL may be left
// empty when an image file is uploaded instead.
type PostForm struct {
	Title    string
	Subtitle string
	ImageURL string
	Body     string
	Image    *Upload
	Errors   Errors

	// StoredImage reports whether a URL points at a previously uploaded
	// image. Such URLs are site-relative and skip the http(s) check.
	StoredImage func(url string) bool
}

func BindPost(r *http.Request) (PostForm, error) {
	if err := parse(r); err != nil {
		return PostForm{}, err
	}
	image, err := parseUpload(r.MultipartForm, "img_file")
	if err != nil {
		return PostForm{}, err
	}
	return PostForm{
		Title:    field(r, "title"),
		Subtitle: field(r, "subtitle"),
		ImageURL: field(r, "img_url"),
		Body:     field(r, "body"),
		Image:    image,
	}, nil
}

func (f *PostForm) Validate() bool {
	f.Errors = Errors{}
	f.Errors.required("title", f.Title)
	f.Errors.required("subtitle", f.Subtitle)
	if (f.Image == nil || f.ImageURL != "") && !f.isStoredImage() {
		f.Errors.url("img_url", f.ImageURL)
	}
	f.Errors.required("body", f.Body)
	return len(f.Errors) == 0
}

func (f *PostForm) isStoredImage() bool {
	return f.ImageURL != "" && f.StoredImage != nil && f.StoredImage(f.ImageURL)
}

type CommentForm struct {
	Comment string
	Errors  Errors
}

func BindComment(r *http.Request) (CommentForm, error) {
	if err := parse(r); err != nil {
		return CommentForm{}, err
	}
	return CommentForm{Comment: field(r, "comment")}, nil
}

func (f *CommentForm) Validate() bool {
	f.Errors = Errors{}
	f.Errors.required("comment", f.Comment)
	return len(f.Errors) == 0
}

// RoleForm creates a user type. The name is kept verbatim apart from
// surrounding whitespace; uniqueness is case-sensitive.
type RoleForm struct {
	Name        string
	Description string
	Errors      Errors
}

func BindRole(r *http.Request) (RoleForm, error) {
	if err := parse(r); err != nil {
		return RoleForm{}, err
	}
	return RoleForm{
		Name:        field(r, "name"),
		Description: field(r, "description"),
	}, nil
}

func (f *RoleForm) Validate() bool {
	f.Errors = Errors{}
	f.Errors.required("name", f.Name)
	return len(f.Errors) == 0
}

package posts

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"strconv"
	"testing"
	"time"
	"yatube/db"
	"yatube/models"
	"yatube/testutil"
)

func reload(t *testing.T, id uint64) models.Post {
	t.Helper()
	p, err := models.PostByID(id)
	if err != nil {
		t.Fatalf("PostByID(%d) error = %v", id, err)
	}
	return p
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCreate(t *testing.T) {
	testutil.Setup(t)
	author := testutil.User(t, "leo")
	group := testutil.Group(t, "Котики", "cats")

	t.Run("anonymous", func(t *testing.T) {
		for _, form := range []*Form{nil, {Text: "valid text"}, {}} {
			out, err := Create(nil, form)
			if err != nil || out.Kind != Unauthorized {
				t.Errorf("Create(nil) = %v, %v", out.Kind, err)
			}
		}
		if n := testutil.CountPosts(t); n != 0 {
			t.Errorf("posts = %d, want 0", n)
		}
	})
	t.Run("empty form", func(t *testing.T) {
		out, err := Create(author, nil)
		if err != nil || out.Kind != Render || out.Form == nil || out.IsEdit || out.Errors != nil {
			t.Errorf("Create() = %+v, %v", out, err)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		submitted := &Form{Text: " ", Group: "777"}
		out, err := Create(author, submitted)
		if err != nil || out.Kind != Render || out.Form != submitted || !out.Errors.Has("text") || !out.Errors.Has("group") {
			t.Errorf("Create() = %+v, %v", out, err)
		}
		if n := testutil.CountPosts(t); n != 0 {
			t.Errorf("posts = %d, want 0", n)
		}
	})
	t.Run("valid", func(t *testing.T) {
		out, err := Create(author, &Form{
			Text:  "Тестовый текст",
			Group: strconv.FormatUint(group.ID, 10),
			Image: &Upload{Name: "small.png", Data: testutil.PNG(t, 20, 10)},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if out.Kind != Redirect || out.Location != "/profile/leo/" {
			t.Errorf("Create() = %v %q", out.Kind, out.Location)
		}
		if n := testutil.CountPosts(t); n != 1 {
			t.Fatalf("posts = %d, want 1", n)
		}
		p := reload(t, out.Post.ID)
		if p.Text != "Тестовый текст" || p.AuthorID != author.ID || p.Group == nil || p.Group.ID != group.ID {
			t.Errorf("stored post = %+v", p)
		}
		if p.Image == nil || p.Image.Width != 20 || p.Image.UserID != author.ID {
			t.Errorf("stored image = %+v", p.Image)
		}
		if p.PubDate.IsZero() {
			t.Errorf("PubDate not set")
		}
	})
}

func TestEdit(t *testing.T) {
	testutil.Setup(t)
	author := testutil.User(t, "leo")
	other := testutil.User(t, "anna")
	group := testutil.Group(t, "Котики", "cats")
	pubDate := time.Now().Add(-time.Hour)
	post := testutil.Post(t, author, group, "Исходный текст", pubDate)

	t.Run("missing", func(t *testing.T) {
		for _, identity := range []*models.User{nil, author} {
			out, err := Edit(identity, post.ID+100, &Form{Text: "x"})
			if err != nil || out.Kind != NotFound {
				t.Errorf("Edit() = %v, %v", out.Kind, err)
			}
		}
	})
	t.Run("not the author", func(t *testing.T) {
		for _, identity := range []*models.User{nil, other} {
			for _, form := range []*Form{nil, {Text: "Чужой текст"}} {
				out, err := Edit(identity, post.ID, form)
				if err != nil || out.Kind != Redirect || out.Location != DetailURL(post.ID) {
					t.Errorf("Edit() = %v %q, %v", out.Kind, out.Location, err)
				}
			}
		}
		if p := reload(t, post.ID); p.Text != "Исходный текст" {
			t.Errorf("text = %q, want unchanged", p.Text)
		}
	})
	t.Run("form", func(t *testing.T) {
		out, err := Edit(author, post.ID, nil)
		if err != nil || out.Kind != Render || !out.IsEdit {
			t.Fatalf("Edit() = %+v, %v", out, err)
		}
		if out.Form.Text != "Исходный текст" || out.Form.Group != strconv.FormatUint(group.ID, 10) {
			t.Errorf("Edit() form = %+v", out.Form)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		out, err := Edit(author, post.ID, &Form{Text: ""})
		if err != nil || out.Kind != Render || !out.IsEdit || !out.Errors.Has("text") {
			t.Errorf("Edit() = %+v, %v", out, err)
		}
		if p := reload(t, post.ID); p.Text != "Исходный текст" {
			t.Errorf("text = %q, want unchanged", p.Text)
		}
	})
	t.Run("valid", func(t *testing.T) {
		out, err := Edit(author, post.ID, &Form{
			Text:  "Новый текст",
			Image: &Upload{Name: "a.gif", Data: gifBytes(t)},
		})
		if err != nil || out.Kind != Redirect || out.Location != DetailURL(post.ID) {
			t.Fatalf("Edit() = %+v, %v", out, err)
		}
		p := reload(t, post.ID)
		if p.Text != "Новый текст" || p.AuthorID != author.ID || p.GroupID != nil || p.Image == nil {
			t.Errorf("stored post = %+v", p)
		}
		if !p.PubDate.Equal(post.PubDate) {
			t.Errorf("PubDate changed: %v != %v", p.PubDate, post.PubDate)
		}
		if n := testutil.CountPosts(t); n != 1 {
			t.Errorf("posts = %d, want 1", n)
		}
	})
	t.Run("keep and clear image", func(t *testing.T) {
		if _, err := Edit(author, post.ID, &Form{Text: "Ещё текст"}); err != nil {
			t.Fatal(err)
		}
		if p := reload(t, post.ID); p.Image == nil {
			t.Fatalf("image dropped without image-clear")
		}
		if _, err := Edit(author, post.ID, &Form{Text: "Ещё текст", ImageClear: "on"}); err != nil {
			t.Fatal(err)
		}
		if p := reload(t, post.ID); p.Image != nil || p.ImageID != nil {
			t.Errorf("image = %+v, want cleared", p.Image)
		}
	})
}

func TestGet(t *testing.T) {
	testutil.Setup(t)
	author := testutil.User(t, "leo")
	post := testutil.Post(t, author, nil, "Первый", time.Now())
	testutil.Post(t, author, nil, "Второй", time.Now())

	detail, err := Get(post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Post.Text != "Первый" || detail.AuthorPosts != 2 || detail.Post.Author.Username != "leo" {
		t.Errorf("Get() = %+v", detail)
	}
	if _, err := Get(post.ID + 100); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	var count int64
	db.Instance.Model(&models.Image{}).Count(&count)
	if count != 0 {
		t.Errorf("images = %d", count)
	}
}

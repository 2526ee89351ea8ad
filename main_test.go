package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
	"yatube/db"
	"yatube/models"
	"yatube/testutil"

	jsoniter "github.com/json-iterator/go"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	router, err := newRouter(false)
	if err != nil {
		t.Fatalf("newRouter() error = %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// newClient keeps cookies and does not follow redirects
func newClient(t *testing.T, server *httptest.Server) *client {
	jar, _ := cookiejar.New(nil)
	return &client{
		t:      t,
		server: server,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) do(req *http.Request) (int, string, http.Header) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s error = %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func (c *client) get(path string) (int, string, http.Header) {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	return c.do(req)
}

func (c *client) postForm(path string, values url.Values) (int, string, http.Header) {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postJSON(path, body string) (int, string, http.Header) {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postMultipart(path string, values map[string]string, fileName string, file []byte) (int, string, http.Header) {
	c.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		_ = w.WriteField(k, v)
	}
	if file != nil {
		part, _ := w.CreateFormFile("image", fileName)
		_, _ = part.Write(file)
	}
	_ = w.Close()
	req, _ := http.NewRequest(http.MethodPost, c.server.URL+path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func (c *client) login(username string) {
	c.t.Helper()
	status, _, header := c.postForm("/auth/login/", url.Values{"username": {username}, "password": {"secret-pass"}})
	if status != http.StatusFound || header.Get("Location") != "/" {
		c.t.Fatalf("login %s = %d %q", username, status, header.Get("Location"))
	}
}

type fixture struct {
	server *httptest.Server
	author *models.User
	other  *models.User
	group  *models.Group
	post   *models.Post
}

func setup(t *testing.T) *fixture {
	testutil.Setup(t)
	f := &fixture{
		author: testutil.User(t, "author"),
		other:  testutil.User(t, "HasNoName"),
		group:  testutil.Group(t, "Тестовая группа", "test-slug"),
	}
	f.post = testutil.Post(t, f.author, f.group, "Тестовый пост", time.Now())
	f.server = newServer(t)
	return f
}

func postPath(id uint64, suffix string) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/" + suffix
}

func TestPages(t *testing.T) {
	f := setup(t)
	guest := newClient(t, f.server)
	author := newClient(t, f.server)
	author.login("author")
	other := newClient(t, f.server)
	other.login("HasNoName")

	tests := []struct {
		name         string
		client       *client
		path         string
		wantStatus   int
		wantBody     string
		wantLocation string
	}{
		{"index", guest, "/", http.StatusOK, "Тестовый пост", ""},
		{"group", guest, "/group/test-slug/", http.StatusOK, "Тестовая группа", ""},
		{"profile", guest, "/profile/author/", http.StatusOK, "Всего постов: 1", ""},
		{"detail", guest, postPath(f.post.ID, ""), http.StatusOK, "Всего постов автора: <span>1</span>", ""},
		{"create guest", guest, "/create/", http.StatusFound, "", "/auth/login/?next=%2Fcreate%2F"},
		{"create", other, "/create/", http.StatusOK, "Новый пост", ""},
		{"edit guest", guest, postPath(f.post.ID, "edit/"), http.StatusFound, "", postPath(f.post.ID, "")},
		{"edit other", other, postPath(f.post.ID, "edit/"), http.StatusFound, "", postPath(f.post.ID, "")},
		{"edit author", author, postPath(f.post.ID, "edit/"), http.StatusOK, "Редактировать пост", ""},
		{"missing group", guest, "/group/missing/", http.StatusNotFound, "Ошибка 404", ""},
		{"missing profile", guest, "/profile/nobody/", http.StatusNotFound, "Ошибка 404", ""},
		{"missing post", guest, postPath(f.post.ID+100, ""), http.StatusNotFound, "Ошибка 404", ""},
		{"missing post edit", author, postPath(f.post.ID+100, "edit/"), http.StatusNotFound, "Ошибка 404", ""},
		{"bad post id", guest, "/posts/abc/", http.StatusNotFound, "", ""},
		{"unknown page", guest, "/unexisting_page/", http.StatusNotFound, "/unexisting_page/", ""},
		{"logged in header", author, "/", http.StatusOK, "Выйти", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, header := tt.client.get(tt.path)
			if status != tt.wantStatus {
				t.Fatalf("GET %s = %d, want %d", tt.path, status, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("GET %s body does not contain %q", tt.path, tt.wantBody)
			}
			if got := header.Get("Location"); got != tt.wantLocation {
				t.Errorf("GET %s Location = %q, want %q", tt.path, got, tt.wantLocation)
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	f := setup(t)
	author := newClient(t, f.server)
	author.login("author")

	status, _, header := author.postMultipart("/create/", map[string]string{
		"text":  "Новый пост с картинкой",
		"group": strconv.FormatUint(f.group.ID, 10),
	}, "small.png", testutil.PNG(t, 30, 20))
	if status != http.StatusFound || header.Get("Location") != "/profile/author/" {
		t.Fatalf("POST /create/ = %d %q", status, header.Get("Location"))
	}
	if n := testutil.CountPosts(t); n != 2 {
		t.Fatalf("posts = %d, want 2", n)
	}
	var created models.Post
	if err := models.PreloadPost(db.Instance).Order(models.FeedOrder).First(&created).Error; err != nil {
		t.Fatal(err)
	}
	if created.Text != "Новый пост с картинкой" || created.AuthorID != f.author.ID || created.Image == nil {
		t.Fatalf("created = %+v", created)
	}

	status, _, header = author.get(created.Image.URL())
	if status != http.StatusOK || header.Get("Content-Type") != "image/png" || header.Get("Cache-Control") != "private, max-age=86400" {
		t.Errorf("GET image = %d %q %q", status, header.Get("Content-Type"), header.Get("Cache-Control"))
	}
	status, _, header = author.get(created.Image.ThumbURL())
	if status != http.StatusOK || header.Get("Content-Type") != "image/jpeg" {
		t.Errorf("GET thumb = %d %q", status, header.Get("Content-Type"))
	}
	if status, _, _ = author.get("/media/unknown-key"); status != http.StatusNotFound {
		t.Errorf("GET missing image = %d", status)
	}
	// the new post leads the index
	if _, body, _ := author.get("/"); !strings.Contains(body, created.Image.ThumbURL()) {
		t.Errorf("index does not show the new image")
	}
}

func TestCreatePost_Invalid(t *testing.T) {
	f := setup(t)
	author := newClient(t, f.server)
	author.login("author")

	status, body, _ := author.postMultipart("/create/", map[string]string{
		"text":  "  ",
		"group": "9999",
	}, "fake.png", []byte("definitely not a picture"))
	if status != http.StatusOK {
		t.Fatalf("POST /create/ = %d", status)
	}
	for _, want := range []string{models.MessageRequired, "Выберите корректный вариант", "Загрузите правильное изображение"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	if n := testutil.CountPosts(t); n != 1 {
		t.Errorf("posts = %d, want 1", n)
	}
}

func TestCreatePost_Guest(t *testing.T) {
	f := setup(t)
	guest := newClient(t, f.server)
	status, _, header := guest.postForm("/create/", url.Values{"text": {"Пост гостя"}})
	if status != http.StatusFound || !strings.HasPrefix(header.Get("Location"), "/auth/login/?next=") {
		t.Errorf("POST /create/ = %d %q", status, header.Get("Location"))
	}
	if n := testutil.CountPosts(t); n != 1 {
		t.Errorf("posts = %d, want 1", n)
	}
}

func TestEditPost(t *testing.T) {
	f := setup(t)
	edit := postPath(f.post.ID, "edit/")
	detail := postPath(f.post.ID, "")

	other := newClient(t, f.server)
	other.login("HasNoName")
	status, _, header := other.postForm(edit, url.Values{"text": {"Чужая правка"}})
	if status != http.StatusFound || header.Get("Location") != detail {
		t.Errorf("POST by other = %d %q", status, header.Get("Location"))
	}
	if p, _ := models.PostByID(f.post.ID); p.Text != "Тестовый пост" {
		t.Errorf("text = %q after edit by other", p.Text)
	}

	author := newClient(t, f.server)
	author.login("author")
	status, body, _ := author.postForm(edit, url.Values{"text": {""}})
	if status != http.StatusOK || !strings.Contains(body, "Редактировать пост") || !strings.Contains(body, models.MessageRequired) {
		t.Errorf("invalid POST by author = %d", status)
	}
	status, _, header = author.postForm(edit, url.Values{"text": {"Изменённый текст"}})
	if status != http.StatusFound || header.Get("Location") != detail {
		t.Errorf("POST by author = %d %q", status, header.Get("Location"))
	}
	p, _ := models.PostByID(f.post.ID)
	if p.Text != "Изменённый текст" || p.AuthorID != f.author.ID || p.GroupID != nil {
		t.Errorf("post after edit = %+v", p)
	}
	if n := testutil.CountPosts(t); n != 1 {
		t.Errorf("posts = %d, want 1", n)
	}
}

func (c *client) postBroken(path string) (int, string, http.Header) {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader("not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=missing")
	return c.do(req)
}

// Access is decided before the body is read, so no body can turn a redirect into an error
func TestPostAccessBeforeBody(t *testing.T) {
	f := setup(t)
	edit := postPath(f.post.ID, "edit/")
	detail := postPath(f.post.ID, "")
	checkbox := url.Values{"text": {"x"}, "image-clear": {"on"}}

	guest := newClient(t, f.server)
	other := newClient(t, f.server)
	other.login("HasNoName")

	tests := []struct {
		name   string
		client *client
		path   string
		broken bool
		want   string
	}{
		{"guest create", guest, "/create/", false, "/auth/login/?next="},
		{"guest create broken body", guest, "/create/", true, "/auth/login/?next="},
		{"guest edit", guest, edit, false, detail},
		{"other edit", other, edit, false, detail},
		{"other edit broken body", other, edit, true, detail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status int
			var header http.Header
			if tt.broken {
				status, _, header = tt.client.postBroken(tt.path)
			} else {
				status, _, header = tt.client.postForm(tt.path, checkbox)
			}
			if status != http.StatusFound || !strings.HasPrefix(header.Get("Location"), tt.want) {
				t.Errorf("POST %s = %d %q, want redirect to %q", tt.path, status, header.Get("Location"), tt.want)
			}
		})
	}
	if n := testutil.CountPosts(t); n != 1 {
		t.Errorf("posts = %d, want 1", n)
	}
	if p, _ := models.PostByID(f.post.ID); p.Text != "Тестовый пост" {
		t.Errorf("text = %q after denied edits", p.Text)
	}

	author := newClient(t, f.server)
	author.login("author")
	status, _, header := author.postForm(edit, checkbox)
	if status != http.StatusFound || header.Get("Location") != detail {
		t.Errorf("POST by author with checkbox = %d %q", status, header.Get("Location"))
	}
	if p, _ := models.PostByID(f.post.ID); p.Text != "x" || p.ImageID != nil {
		t.Errorf("post after edit = %+v", p)
	}
}

func TestFeedPagination(t *testing.T) {
	f := setup(t)
	start := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		testutil.Post(t, f.author, f.group, fmt.Sprintf("text%d", i), start.Add(time.Duration(i)*time.Second))
	}
	guest := newClient(t, f.server)
	for _, path := range []string{"/", "/group/test-slug/", "/profile/author/"} {
		for _, tt := range []struct {
			page string
			want int
		}{
			{"", 10},
			{"2", 3},
			{"100", 3},
		} {
			t.Run(path+"?page="+tt.page, func(t *testing.T) {
				status, body, _ := guest.get(path + "?format=json&page=" + tt.page)
				if status != http.StatusOK {
					t.Fatalf("status = %d", status)
				}
				var result struct {
					Page struct {
						Items []models.Post `json:"items"`
						Count int           `json:"count"`
					} `json:"page"`
				}
				if err := jsoniter.UnmarshalFromString(body, &result); err != nil {
					t.Fatalf("decode error = %v", err)
				}
				if len(result.Page.Items) != tt.want || result.Page.Count != 13 {
					t.Errorf("items = %d, count = %d, want %d of 13", len(result.Page.Items), result.Page.Count, tt.want)
				}
			})
		}
	}
}

func TestSignupLoginLogout(t *testing.T) {
	f := setup(t)
	c := newClient(t, f.server)
	status, body, _ := c.postForm("/auth/signup/", url.Values{"username": {"author"}, "password": {"another-pass"}})
	if status != http.StatusOK || !strings.Contains(body, "уже существует") {
		t.Errorf("duplicate signup = %d", status)
	}
	status, _, header := c.postForm("/auth/signup/", url.Values{"username": {"newbie"}, "email": {"newbie@example.com"}, "password": {"another-pass"}})
	if status != http.StatusFound || header.Get("Location") != "/" {
		t.Fatalf("signup = %d %q", status, header.Get("Location"))
	}
	if status, _, _ = c.get("/create/"); status != http.StatusOK {
		t.Errorf("create after signup = %d", status)
	}
	if status, body, _ = c.get("/auth/logout/"); status != http.StatusOK || !strings.Contains(body, "Вы вышли") {
		t.Errorf("logout = %d", status)
	}
	if status, _, _ = c.get("/create/"); status != http.StatusFound {
		t.Errorf("create after logout = %d", status)
	}

	status, body, _ = c.postForm("/auth/login/", url.Values{"username": {"newbie"}, "password": {"wrong"}})
	if status != http.StatusOK || !strings.Contains(body, "правильные имя пользователя и пароль") {
		t.Errorf("login with a wrong password = %d", status)
	}
	status, _, header = c.postForm("/auth/login/", url.Values{"username": {"newbie"}, "password": {"another-pass"}, "next": {"/create/"}})
	if status != http.StatusFound || header.Get("Location") != "/create/" {
		t.Errorf("login with next = %d %q", status, header.Get("Location"))
	}
	status, _, header = c.postForm("/auth/login/", url.Values{"username": {"newbie"}, "password": {"another-pass"}, "next": {"//evil.example.com/"}})
	if status != http.StatusFound || header.Get("Location") != "/" {
		t.Errorf("login with foreign next = %d %q", status, header.Get("Location"))
	}
}

func TestAdminRoutes(t *testing.T) {
	f := setup(t)
	if _, err := models.EnsureAdmin("admin", "secret-pass"); err != nil {
		t.Fatal(err)
	}
	user := newClient(t, f.server)
	user.login("author")
	for _, path := range []string{"/admin/groups/", "/debug/vars"} {
		if status, _, _ := user.get(path); status != http.StatusUnauthorized {
			t.Errorf("GET %s by a regular user = %d", path, status)
		}
	}

	admin := newClient(t, f.server)
	admin.login("admin")
	status, body, _ := admin.postForm("/admin/groups/", url.Values{"title": {"Котики"}, "slug": {"cats"}})
	if status != http.StatusOK || !strings.Contains(body, `"url":"/group/cats/"`) {
		t.Errorf("create group = %d %s", status, body)
	}
	if status, _, _ = admin.postForm("/admin/groups/", url.Values{"title": {"Котики"}, "slug": {"cats"}}); status != http.StatusBadRequest {
		t.Errorf("duplicate group = %d", status)
	}
	status, body, _ = admin.get("/admin/groups/")
	if status != http.StatusOK || !strings.Contains(body, `"slug":"cats"`) || !strings.Contains(body, `"slug":"test-slug"`) {
		t.Errorf("list groups = %d %s", status, body)
	}
	if status, body, _ = admin.get("/debug/vars"); status != http.StatusOK || !strings.Contains(body, "memstats") {
		t.Errorf("debug vars = %d", status)
	}
	if status, _, _ = admin.get("/group/cats/"); status != http.StatusOK {
		t.Errorf("new group page = %d", status)
	}

	if status, _, _ = admin.postJSON("/admin/buckets/", `{"name":"second","type":0,"path":"relative"}`); status != http.StatusBadRequest {
		t.Errorf("relative bucket path = %d", status)
	}
	dir := t.TempDir()
	status, body, _ = admin.postJSON("/admin/buckets/", `{"name":"second","type":0,"path":"`+dir+`"}`)
	if status != http.StatusOK {
		t.Errorf("save bucket = %d %s", status, body)
	}
	status, body, _ = admin.get("/admin/buckets/")
	if status != http.StatusOK || !strings.Contains(body, `"name":"second"`) || !strings.Contains(body, `"name":"media"`) || strings.Contains(body, "s3secret") {
		t.Errorf("list buckets = %d %s", status, body)
	}
}

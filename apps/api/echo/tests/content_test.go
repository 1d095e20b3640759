package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/somolms/somo/core/content"
	testutil "github.com/somolms/somo/tests"
)

func Test_contentApi_create(t *testing.T) {
	testutil.CreatePackage(t, pkgRepo, "Taken", "taken-slug", 70, true)

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required", "entry_point": "this field is required"}),
		},
		{
			name: "bad slug", body: marchallObj(t, content.NewPackage{Title: "T", Slug: "Bad Slug!", EntryPoint: "index.html"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"slug": "only lowercase alphanumeric characters and hyphens are allowed"}),
		},
		{
			name: "bad version", body: []byte(`{"title": "T", "entry_point": "index.html", "version": "1.3"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"version": "version must be one of [1.2 2004]"}),
		},
		{
			name: "duplicate slug", body: marchallObj(t, content.NewPackage{Title: "T", Slug: "taken-slug", EntryPoint: "index.html"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"slug": "a package with this slug already exists"}),
		},
		{
			name: "created", body: marchallObj(t, content.NewPackage{Title: "Created Course", EntryPoint: "index.html"}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/scorm/packages", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created package payload", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/scorm/packages",
			marchallObj(t, content.NewPackage{Title: "Payload Course", EntryPoint: "start.html"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
		}
		var pkg content.Package
		unmarchallObj(t, rec.Body.Bytes(), &pkg)
		if pkg.ID == "" || pkg.Slug != "payload-course" || pkg.Status != content.StatusReady {
			t.Errorf("pkg = %+v", pkg)
		}
	})
}

func Test_contentApi_retrieve(t *testing.T) {
	pkg := testutil.CreatePackage(t, pkgRepo, "Retrieve Course", "retrieve-course", 70, true)

	tests := []httpTest{
		{name: "by id", path: "/v1/scorm/packages/" + pkg.ID, wantCode: http.StatusOK, wantData: marchallObj(t, pkg)},
		{name: "by slug", path: "/v1/scorm/packages/retrieve-course", wantCode: http.StatusOK, wantData: marchallObj(t, pkg)},
		{name: "unknown", path: "/v1/scorm/packages/nope", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_contentApi_query(t *testing.T) {
	testutil.CreatePackage(t, pkgRepo, "Query Alpha", "query-alpha", 70, true)
	testutil.CreatePackage(t, pkgRepo, "Query Beta", "query-beta", 70, true)

	path := func(search string) string {
		v := make(url.Values)
		v.Add("search", search)
		return "/v1/scorm/packages?" + v.Encode()
	}

	t.Run("search", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path("query alpha"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		var pkgs []content.Package
		unmarchallObj(t, rec.Body.Bytes(), &pkgs)
		if len(pkgs) != 1 || pkgs[0].Slug != "query-alpha" {
			t.Errorf("pkgs = %+v", pkgs)
		}
	})

	t.Run("search unknown", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path("does-not-exist"))
		app.ServeHTTP(rec, req)
		var pkgs []content.Package
		unmarchallObj(t, rec.Body.Bytes(), &pkgs)
		if len(pkgs) != 0 {
			t.Errorf("pkgs = %+v", pkgs)
		}
	})
}

func Test_contentApi_update(t *testing.T) {
	pkg := testutil.CreatePackage(t, pkgRepo, "Update Course", "update-course", 70, true)

	t.Run("update status", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/v1/scorm/packages/"+pkg.ID,
			[]byte(`{"status": "disabled", "title": "Update Course v2"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
		}
		var updated content.Package
		unmarchallObj(t, rec.Body.Bytes(), &updated)
		if updated.Status != content.StatusDisabled || updated.Title != "Update Course v2" {
			t.Errorf("updated = %+v", updated)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of [ready disabled]"}),
		}
		req, rec := newRequest(http.MethodPut, "/v1/scorm/packages/"+pkg.ID, []byte(`{"status": "on-fire"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_contentApi_destroy(t *testing.T) {
	pkg := testutil.CreatePackage(t, pkgRepo, "Doomed Course", "doomed-course", 70, true)

	req, rec := newRequest(http.MethodDelete, "/v1/scorm/packages/"+pkg.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d", rec.Code)
	}

	req, rec = newRequest(http.MethodGet, "/v1/scorm/packages/"+pkg.ID)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

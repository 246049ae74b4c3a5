package artifacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmzh2021/news-collection/internal/domain"
)

func TestLatestFromPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/results_latest.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"keyword":"樊振东","total":1,"results":[{"title":"樊振东夺冠的报道","url":"https://toutiao.com/group/1/","platform":"toutiao"}],"platforms":["toutiao"],"timestamp":"2026-08-01T12:00:00Z","run_id":"1","run_number":"1","filename":"results_1_1_20260801_120000.json"}`))
	}))
	defer srv.Close()

	rep, err := Client{}.LatestFromPages(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if rep.Keyword != "樊振东" || rep.Total != 1 {
		t.Fatalf("报告内容不符：%+v", rep)
	}
	if rep.Results[0].Platform != domain.PlatformToutiao {
		t.Errorf("平台标记不符：%q", rep.Results[0].Platform)
	}
}

func TestLatestFromPages_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := (Client{}).LatestFromPages(context.Background(), srv.URL); err == nil {
		t.Fatal("期望错误, 实际 nil")
	}
}

func TestListArtifacts(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/actions/artifacts" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count":2,"artifacts":[
		{"id":11,"name":"news-results","size_in_bytes":2048,"created_at":"2026-08-01T12:00:00Z","expired":false},
		{"id":10,"name":"news-results","size_in_bytes":1024,"created_at":"2026-07-31T12:00:00Z","expired":true}]}`))
	}))
	defer srv.Close()

	list, err := Client{APIBase: srv.URL}.ListArtifacts(context.Background(), "o", "r", "tok")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("认证头不符：%q", gotAuth)
	}
	if len(list) != 2 || list[0].ID != 11 || !list[1].Expired {
		t.Fatalf("清单不符：%+v", list)
	}
}

func TestDownloadArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/actions/artifacts/11/zip" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("PK\x03\x04zipbytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Client{APIBase: srv.URL}.DownloadArtifact(context.Background(), "o", "r", 11, "tok", dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if path != filepath.Join(dir, "artifact_11.zip") {
		t.Errorf("路径不符：%q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		t.Fatalf("zip 未写出：%v", err)
	}
}

func TestDownloadArtifact_RequiresToken(t *testing.T) {
	if _, err := (Client{}).DownloadArtifact(context.Background(), "o", "r", 1, " ", t.TempDir()); err == nil {
		t.Fatal("期望 token 校验错误")
	}
}

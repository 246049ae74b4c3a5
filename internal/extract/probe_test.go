package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIProbe_DirectJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"title":"接口返回的新闻","article_url":"https://www.toutiao.com/article/1/"}]}`))
	}))
	defer srv.Close()

	out := APIProbe(context.Background(), srv.Client(), toutiaoProf, []string{srv.URL})
	if !out.IsSuccess() || len(out.Candidates) != 1 {
		t.Fatalf("期望 1 条候选：%+v", out)
	}
	c := out.Candidates[0]
	if c.Title != "接口返回的新闻" || c.URL != "https://www.toutiao.com/article/1/" {
		t.Fatalf("候选不符：%+v", c)
	}
}

func TestAPIProbe_JSONSubstringFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// JSONP 式包裹：直接解析失败后退化为括号截取。
		w.Write([]byte(`callback({"result":{"list":[{"title":"包裹里的新闻","url":"https://www.toutiao.com/group/9/"}]}});`))
	}))
	defer srv.Close()

	out := APIProbe(context.Background(), srv.Client(), toutiaoProf, []string{srv.URL})
	if len(out.Candidates) != 1 || out.Candidates[0].Title != "包裹里的新闻" {
		t.Fatalf("JSON 子串回退失败：%+v", out)
	}
}

func TestAPIProbe_FirstEndpointWins(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"name":"第二端点的新闻","link":"https://www.toutiao.com/article/2/"}]}`))
	}))
	defer good.Close()

	out := APIProbe(context.Background(), http.DefaultClient, toutiaoProf, []string{bad.URL, good.URL})
	if len(out.Candidates) != 1 || out.Candidates[0].Title != "第二端点的新闻" {
		t.Fatalf("端点降级失败：%+v", out)
	}
}

func TestAPIProbe_AllUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // 立刻关掉：传输层错误

	out := APIProbe(context.Background(), http.DefaultClient, toutiaoProf, []string{srv.URL})
	if !out.IsFailed() {
		t.Fatalf("全部端点失败应为 Failed：%+v", out)
	}
}

func TestAPIProbe_ParsedButEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	out := APIProbe(context.Background(), srv.Client(), toutiaoProf, []string{srv.URL})
	if !out.IsEmpty() {
		t.Fatalf("解析成功但无条目应为 Empty：%+v", out)
	}
}

func TestJSONSubstring(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`cb({"a":1});`, `{"a":1}`, true},
		{`prefix [1,2,3] suffix`, `[1,2,3]`, true},
		{`no json here`, ``, false},
	}
	for _, c := range cases {
		got, ok := jsonSubstring(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("jsonSubstring(%q) = (%q,%v)，期望 (%q,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

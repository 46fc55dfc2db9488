package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

type goldenFileTestCase struct {
	expect          string
	givenArgs       string
	givenEnvs       map[string]string
	wantOutExactly  string
	wantOutContains string
	wantStatusCode  int
}

var testFrames = []string{
	`data: {"type":"chat:completion","data":{"phase":"thinking","delta_content":"Pondering"}}`,
	`data: {"type":"chat:completion","data":{"phase":"answer","delta_content":"Hi"}}`,
	`data: {"type":"chat:completion","data":{"phase":"answer","delta_content":" there"}}`,
	`data: {"type":"chat:completion","data":{"phase":"done","done":true}}`,
}

// newTestUpstream serves a guest token and a fixed event stream.
func newTestUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auths/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "guest.e30.sig"})
	})
	mux.HandleFunc("POST /api/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "denied" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, fr := range testFrames {
			fmt.Fprintf(w, "%s\n\n", fr)
		}
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func runGoldenFile(t *testing.T, tcs []goldenFileTestCase) {
	t.Helper()
	upstream := newTestUpstream(t)
	for _, tc := range tcs {
		t.Run(tc.expect, func(t *testing.T) {
			t.Setenv("ZAI_CONFIG_HOME", t.TempDir())
			t.Setenv("ZAI_BASE_URL", upstream.URL)
			t.Setenv("ZAI_TOKEN", "")
			t.Setenv("NO_COLOR", "true")
			for k, v := range tc.givenEnvs {
				t.Setenv(k, v)
			}
			var gotStatusCode int
			gotStdout := testboil.CaptureStdout(t, func(t *testing.T) {
				gotStatusCode = run(strings.Split(tc.givenArgs, " "))
			})

			testboil.FailTestIfDiff(t, gotStatusCode, tc.wantStatusCode)
			if tc.wantOutExactly != "" {
				testboil.FailTestIfDiff(t, gotStdout, tc.wantOutExactly)
			}
			if tc.wantOutContains != "" {
				testboil.AssertStringContains(t, gotStdout, tc.wantOutContains)
			}
		})
	}
}

func Test_goldenFile_query(t *testing.T) {
	runGoldenFile(t, []goldenFileTestCase{
		{
			expect:         "raw prints the answer only",
			givenArgs:      "-r q hello",
			wantOutExactly: "Hi there\n",
		},
		{
			expect:         "multiple words form one prompt",
			givenArgs:      "-r -cm GLM-4.5 q hello there friend",
			wantOutExactly: "Hi there\n",
		},
		{
			expect:         "reasoning is printed before the answer",
			givenArgs:      "-cm GLM-4.6-Thinking q hello",
			wantOutExactly: "reasoning: Pondering\nassistant: Hi there\n",
		},
		{
			expect:         "stream prints every fragment",
			givenArgs:      "-s q hello",
			wantOutExactly: "PonderingHi there\n",
		},
		{
			expect:         "configured token is used",
			givenArgs:      "-r -tk denied q hello",
			wantStatusCode: 1,
		},
		{
			expect:         "token from env",
			givenArgs:      "-r q hello",
			givenEnvs:      map[string]string{"ZAI_TOKEN": "denied"},
			wantStatusCode: 1,
		},
		{
			expect:         "no prompt",
			givenArgs:      "q",
			wantStatusCode: 1,
		},
		{
			expect:         "anonymous disabled without token",
			givenArgs:      "-r q hello",
			givenEnvs:      map[string]string{"ZAI_DISABLE_ANONYMOUS": "true"},
			wantStatusCode: 1,
		},
		{
			expect:         "unknown fallback charset",
			givenArgs:      "-r q hello",
			givenEnvs:      map[string]string{"ZAI_FALLBACK_CHARSET": "not-a-charset"},
			wantStatusCode: 1,
		},
	})
}

func Test_goldenFile_commands(t *testing.T) {
	runGoldenFile(t, []goldenFileTestCase{
		{
			expect:          "help",
			givenArgs:       "h",
			wantOutContains: "Usage: zai",
		},
		{
			expect:          "help long form",
			givenArgs:       "help",
			wantOutContains: "q|query <text>",
		},
		{
			expect:          "unknown command prints usage",
			givenArgs:       "nope",
			wantOutContains: "Usage: zai",
			wantStatusCode:  1,
		},
		{
			expect:          "models",
			givenArgs:       "m",
			wantOutContains: "GLM-4.5\nGLM-4.5-Air\nGLM-4.5-Search\n",
		},
		{
			expect:          "version",
			givenArgs:       "v",
			wantOutContains: "version: ",
		},
		{
			expect:         "mutually exclusive flags",
			givenArgs:      "-cm a -chat-model b q hello",
			wantStatusCode: 1,
		},
	})
}

func Test_getModeFromArgs(t *testing.T) {
	for cmd, want := range map[string]Mode{
		"q": QUERY, "query": QUERY,
		"m": MODELS, "models": MODELS,
		"s": SERVE, "serve": SERVE,
		"h": HELP, "help": HELP,
		"v": VERSION, "version": VERSION,
	} {
		got, err := getModeFromArgs(cmd)
		if err != nil {
			t.Fatalf("unexpected err for %q: %v", cmd, err)
		}
		testboil.FailTestIfDiff(t, got, want)
	}
	if _, err := getModeFromArgs("bogus"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

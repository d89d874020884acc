package scenario_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"datamine/internal/config"
	"datamine/internal/decompile"
	"datamine/internal/fetch"
	"datamine/internal/manifest"
	"datamine/internal/pipeline"
	"datamine/internal/scenario"
	"datamine/internal/services"
	"datamine/internal/steamcmd"
	"datamine/internal/testsupport"
)

var fixedNow = func() time.Time {
	return time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
}

func TestLookupUnknownScenario(t *testing.T) {
	if _, err := scenario.Lookup("nope"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	sc, err := scenario.Lookup(" Websites ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if sc.Name() != "websites" {
		t.Fatalf("unexpected scenario %q", sc.Name())
	}
	if got := scenario.Names(); !slices.Equal(got, []string{"decompile", "websites"}) {
		t.Fatalf("unexpected names %v", got)
	}

	cfg := testsupport.NewConfig(t)
	_, err = scenario.Run(context.Background(), scenario.Env{Config: cfg}, "nope", scenario.Options{Root: t.TempDir()})
	if !services.IsFatal(err) {
		t.Fatalf("expected fatal error for unknown scenario, got %v", err)
	}
}

type upstream struct {
	mu         sync.Mutex
	liveConfig string
	hits       map[string]int
}

func (u *upstream) handler(t *testing.T) http.Handler {
	filters := testsupport.HostBansStream(testsupport.HostBans{
		Addresses: []testsupport.HostBanAddress{{IP: 0x0A000000, PrefixBits: 8, Flags: 1}},
		Names:     []testsupport.HostBanName{{Pattern: "free.*skins", Flags: 1 << 4}},
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.hits[r.URL.Path]++
		live := u.liveConfig
		u.mu.Unlock()
		switch r.URL.Path {
		case "/UnturnedLiveConfig.dat":
			_, _ = w.Write([]byte(live))
		case "/UnturnedHostBans/filters.bin":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/mirror/UnturnedHostBans/filters.bin":
			_, _ = w.Write(filters)
		case "/UnturnedHostBans/index.html":
			_, _ = w.Write([]byte("<html><body>host bans</body></html>\n"))
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func newWebsitesEnv(t *testing.T, u *upstream) scenario.Env {
	t.Helper()
	u.hits = make(map[string]int)
	srv := httptest.NewServer(u.handler(t))
	t.Cleanup(srv.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithWebsites(srv.URL))
	return scenario.Env{
		Config:  cfg,
		Fetcher: fetch.NewClient(cfg, nil),
		Now:     fixedNow,
	}
}

func TestWebsitesScenarioPersistsAndSkipsUnchanged(t *testing.T) {
	u := &upstream{liveConfig: "Main_Menu\n{\n\tAlert Text Hello\n}\n"}
	env := newWebsitesEnv(t, u)
	root := t.TempDir()

	summary, err := scenario.Run(context.Background(), env, "websites", scenario.Options{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := summary.Count(pipeline.StateDone); got != 3 {
		t.Fatalf("expected 3 done sources, got %d (%+v)", got, summary.Outcomes)
	}
	if u.hits["/UnturnedHostBans/filters.bin"] != 1 || u.hits["/mirror/UnturnedHostBans/filters.bin"] != 1 {
		t.Fatalf("expected primary then mirror, got %v", u.hits)
	}
	if got := testsupport.ReadFile(t, filepath.Join(root, "UnturnedLiveConfig.dat")); got != u.liveConfig {
		t.Fatalf("live config not written verbatim: %q", got)
	}
	if md := testsupport.ReadFile(t, filepath.Join(root, "HostBans", "Filters.md")); !strings.Contains(md, "10.0.0.0/8") {
		t.Fatalf("filters markdown missing address:\n%s", md)
	}
	for _, name := range []string{"HostBans/Filters.json", "HostBans/index.html"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	commit := testsupport.ReadFile(t, filepath.Join(root, scenario.CommitFile))
	wantHeadline := "18 October 2026 - Updated `HostBans/Filters.json`, `HostBans/Filters.md`, `HostBans/index.html`, `UnturnedLiveConfig.dat`"
	if !strings.HasPrefix(commit, wantHeadline+"\n\n") {
		t.Fatalf("unexpected commit message:\n%s", commit)
	}
	for _, line := range []string{"- host_bans\n", "- host_bans_index\n", "- live_config\n"} {
		if !strings.Contains(commit, line) {
			t.Fatalf("commit message missing %q:\n%s", line, commit)
		}
	}

	if err := os.Remove(filepath.Join(root, scenario.CommitFile)); err != nil {
		t.Fatalf("remove commit: %v", err)
	}
	summary, err = scenario.Run(context.Background(), env, "websites", scenario.Options{Root: root})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.HasChanges() || summary.Count(pipeline.StateSkipped) != 3 {
		t.Fatalf("expected every source skipped, got %+v", summary.Outcomes)
	}
	if _, err := os.Stat(filepath.Join(root, scenario.CommitFile)); !os.IsNotExist(err) {
		t.Fatalf("commit file written for an unchanged run: %v", err)
	}
}

func TestWebsitesEmptyLiveConfigKeepsPreviousCopy(t *testing.T) {
	u := &upstream{liveConfig: "  \n"}
	env := newWebsitesEnv(t, u)
	root := t.TempDir()
	previous := []byte("previous live config\n")
	testsupport.WriteFile(t, filepath.Join(root, "UnturnedLiveConfig.dat"), previous)

	summary, err := scenario.Run(context.Background(), env, "websites", scenario.Options{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var live pipeline.Outcome
	for _, o := range summary.Outcomes {
		if o.Source == "live_config" {
			live = o
		}
	}
	if live.State != pipeline.StateFailed || live.ErrorKind() != "likely_format_drift" {
		t.Fatalf("expected drift failure, got %+v", live)
	}
	if got := testsupport.ReadFile(t, filepath.Join(root, "UnturnedLiveConfig.dat")); got != string(previous) {
		t.Fatalf("previous copy overwritten: %q", got)
	}
	commit := testsupport.ReadFile(t, filepath.Join(root, scenario.CommitFile))
	if strings.Contains(commit, "live_config") || strings.Contains(commit, "UnturnedLiveConfig.dat") {
		t.Fatalf("failed source reported as changed:\n%s", commit)
	}
}

type fakeDecompiler struct {
	mu         sync.Mutex
	types      []decompile.TypeRef
	lists      int
	decompiles int
}

func (f *fakeDecompiler) ListTypes(ctx context.Context, assembly string, refDirs []string) ([]decompile.TypeRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if _, err := os.Stat(assembly); err != nil {
		return nil, err
	}
	return f.types, nil
}

func (f *fakeDecompiler) DecompileTypes(ctx context.Context, assembly string, refDirs []string, types []decompile.TypeRef) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decompiles++
	var b strings.Builder
	for _, t := range types {
		b.WriteString("// " + t.FullName() + "\n")
	}
	return []byte(b.String()), nil
}

type fakeUpdater struct {
	root  string
	appID int
	err   error
	calls int
}

func (f *fakeUpdater) Update(ctx context.Context, root string, appID int) error {
	f.calls++
	f.root = root
	f.appID = appID
	return f.err
}

func seedGame(t *testing.T, cfg *config.Config, root string, client bool, buildID string) {
	t.Helper()
	appID := cfg.AppID(client)
	dataDir := filepath.Join(root, scenario.DataDir(client))
	testsupport.WriteFile(t, manifest.AppManifestPath(root, appID), testsupport.AppManifest(appID, buildID))
	testsupport.WriteFile(t, filepath.Join(root, "Status.json"), testsupport.StatusJSON(24, 7, 3))
	testsupport.WriteFile(t, filepath.Join(root, "EconInfo.bin"), testsupport.EconStream(
		testsupport.EconItem{ID: 101, Name: "Festive Hat", Type: "Hat", Quality: 2, Tradable: true},
	))
	testsupport.WriteFile(t, filepath.Join(root, "EconInfo.json"), []byte(`[{"itemdefid":101,"name":"Festive Hat"}]`))
	testsupport.WriteFile(t, filepath.Join(dataDir, "globalgamemanagers"), testsupport.GlobalGameManagers("2021.3.29f1"))
	testsupport.WriteFile(t, filepath.Join(dataDir, "Managed", "Assembly-CSharp.dll"), []byte("MZ"))
}

func newDecompileEnv(t *testing.T) (scenario.Env, *fakeDecompiler, *fakeUpdater) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Decompiler.Modules = []string{"Assembly-CSharp"}
	dec := &fakeDecompiler{types: []decompile.TypeRef{
		{Namespace: "SDG.Unturned", Name: "Player"},
		{Namespace: "SDG.Unturned", Name: "PlayerLife"},
		{Name: "<Module>"},
	}}
	upd := &fakeUpdater{}
	return scenario.Env{Config: cfg, Decompiler: dec, Updater: upd, Now: fixedNow}, dec, upd
}

func TestDecompileScenarioPersistsAndGatesOnBuild(t *testing.T) {
	env, dec, upd := newDecompileEnv(t)
	root := t.TempDir()
	seedGame(t, env.Config, root, false, "18372615")

	summary, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, NoSteam: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if upd.calls != 0 {
		t.Fatalf("updater called despite --nosteam")
	}
	if got := summary.Changed(); !slices.Equal(got, []string{"Assembly-CSharp", "econ", "econ_json", "unity_version"}) {
		t.Fatalf("unexpected changed sources %v (%+v)", got, summary.Outcomes)
	}
	if summary.BuildID != "18372615" {
		t.Fatalf("unexpected build id %q", summary.BuildID)
	}

	player := testsupport.ReadFile(t, filepath.Join(root, "Assembly-CSharp", "SDG.Unturned", "Player.cs"))
	if player != "// SDG.Unturned.Player\n" {
		t.Fatalf("unexpected decompiled output %q", player)
	}
	if _, err := os.Stat(filepath.Join(root, "Assembly-CSharp", "<Module>.cs")); !os.IsNotExist(err) {
		t.Fatalf("module type should be excluded: %v", err)
	}
	if got := testsupport.ReadFile(t, filepath.Join(root, ".unityversion")); got != "2021.3.29f1" {
		t.Fatalf("unexpected unity version %q", got)
	}
	if md := testsupport.ReadFile(t, filepath.Join(root, "Econ", "EconInfo.md")); !strings.Contains(md, "Festive Hat") {
		t.Fatalf("econ markdown missing record:\n%s", md)
	}
	if got := testsupport.ReadFile(t, filepath.Join(root, ".buildid")); got != "18372615" {
		t.Fatalf("build id not recorded: %q", got)
	}
	commit := testsupport.ReadFile(t, filepath.Join(root, scenario.CommitFile))
	if !strings.HasPrefix(commit, "18 October 2026 - Version 3.24.7.3 (18372615)\n\n") {
		t.Fatalf("unexpected commit message:\n%s", commit)
	}

	lists, decompiles := dec.lists, dec.decompiles
	summary, err = scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, NoSteam: true})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !summary.BuildSkipped || summary.HasChanges() {
		t.Fatalf("expected build gate to skip, got %+v", summary)
	}
	if dec.lists != lists || dec.decompiles != decompiles {
		t.Fatalf("decompiler invoked for an unchanged build")
	}

	summary, err = scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, NoSteam: true, Force: true})
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if summary.BuildSkipped || summary.Count(pipeline.StateSkipped) != 4 {
		t.Fatalf("forced run should reach the artifact gate and skip, got %+v", summary.Outcomes)
	}
	if dec.lists == lists {
		t.Fatalf("forced run did not decompile")
	}
}

func TestDecompileScenarioUpdatesClientBuild(t *testing.T) {
	env, _, upd := newDecompileEnv(t)
	root := t.TempDir()
	seedGame(t, env.Config, root, true, "900")

	summary, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, Client: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if upd.calls != 1 || upd.appID != env.Config.Steam.ClientAppID || upd.root != root {
		t.Fatalf("unexpected update call %+v", upd)
	}
	if summary.Count(pipeline.StateDone) != 4 {
		t.Fatalf("expected all sources done, got %+v", summary.Outcomes)
	}
}

func TestDecompileScenarioPropagatesUpdateFailure(t *testing.T) {
	env, dec, upd := newDecompileEnv(t)
	upd.err = &steamcmd.ExitError{Code: 8}
	root := t.TempDir()
	seedGame(t, env.Config, root, false, "1")

	_, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root})
	var exitErr *steamcmd.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 8 {
		t.Fatalf("expected exit error 8, got %v", err)
	}
	if dec.lists != 0 {
		t.Fatalf("decompiler ran after a failed update")
	}
}

func TestDecompileScenarioRequiresAppManifest(t *testing.T) {
	env, _, _ := newDecompileEnv(t)
	_, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: t.TempDir(), NoSteam: true})
	if !errors.Is(err, services.ErrMissingUpstreamFile) {
		t.Fatalf("expected missing upstream file, got %v", err)
	}
}

func TestDecompileScenarioPrunesRemovedTypes(t *testing.T) {
	env, dec, _ := newDecompileEnv(t)
	root := t.TempDir()
	seedGame(t, env.Config, root, false, "1")
	if _, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, NoSteam: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	dec.types = dec.types[:1]
	seedGame(t, env.Config, root, false, "2")
	summary, err := scenario.Run(context.Background(), env, "decompile", scenario.Options{Root: root, NoSteam: true})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !slices.Contains(summary.Changed(), "Assembly-CSharp") {
		t.Fatalf("expected module to change, got %+v", summary.Outcomes)
	}
	if _, err := os.Stat(filepath.Join(root, "Assembly-CSharp", "SDG.Unturned", "PlayerLife.cs")); !os.IsNotExist(err) {
		t.Fatalf("removed type still on disk: %v", err)
	}
}

type recordingExecutor struct {
	binary string
	args   []string
	code   int
}

func (r *recordingExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) (int, error) {
	r.binary = binary
	r.args = append([]string(nil), args...)
	onOutput("Success! App fully installed.")
	return r.code, nil
}

type failingDownloader struct{}

func (failingDownloader) Bytes(context.Context, string) ([]byte, error) {
	return nil, errors.New("unexpected download")
}

func TestSteamUpdaterReusesInstalledBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	binary := filepath.Join(cfg.SteamCMDDir(root), steamcmd.BinaryName(runtime.GOOS))
	testsupport.WriteFile(t, binary, []byte("#!/bin/sh\n"))

	exec := &recordingExecutor{}
	updater := scenario.NewSteamUpdater(cfg, failingDownloader{}, nil, steamcmd.WithExecutor(exec))
	if err := updater.Update(context.Background(), root, 1110390); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if exec.binary != binary {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	want := steamcmd.UpdateArgs(root, 1110390, cfg.Steam.Beta)
	if !slices.Equal(exec.args, want) {
		t.Fatalf("unexpected args %v, want %v", exec.args, want)
	}

	exec.code = 5
	var exitErr *steamcmd.ExitError
	if err := updater.Update(context.Background(), root, 1110390); !errors.As(err, &exitErr) || exitErr.Code != 5 {
		t.Fatalf("expected exit code 5, got %v", err)
	}
}

func TestToHistory(t *testing.T) {
	started := fixedNow()
	summary := pipeline.Summary{
		RunID:    "run-1",
		Scenario: "websites",
		Headline: "18 October 2026 - Updated `UnturnedLiveConfig.dat`",
		Started:  started,
		Finished: started.Add(time.Second),
		Outcomes: []pipeline.Outcome{
			{Source: "host_bans", State: pipeline.StateFailed, Err: services.Wrap(services.ErrTransport, "fetch", "get", "down", nil)},
			{Source: "live_config", State: pipeline.StateDone, Changed: true, Paths: []string{"UnturnedLiveConfig.dat"}, Digest: "abc"},
		},
	}
	run := scenario.ToHistory(summary)
	if run.RunID != "run-1" || run.Scenario != "websites" || len(run.Outcomes) != 2 {
		t.Fatalf("unexpected run %+v", run)
	}
	failed := run.Outcomes[0]
	if failed.State != "failed" || failed.ErrorKind != "transport_failure" || !strings.Contains(failed.ErrorMessage, "down") {
		t.Fatalf("unexpected failed outcome %+v", failed)
	}
	done := run.Outcomes[1]
	if !done.Changed || done.ArtifactCount != 1 || done.Digest != "abc" || done.ErrorMessage != "" {
		t.Fatalf("unexpected done outcome %+v", done)
	}
}

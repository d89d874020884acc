package scenario

import (
	"context"
	"sort"
	"strings"

	"datamine/internal/pipeline"
	"datamine/internal/services"
)

const (
	liveConfigFile    = "UnturnedLiveConfig.dat"
	hostBansIndexFile = "HostBans/index.html"
)

type websitesScenario struct{}

func (websitesScenario) Name() string { return "websites" }

func (websitesScenario) Prepare(_ context.Context, env Env, _ Options) (Plan, error) {
	if env.Fetcher == nil {
		return Plan{}, services.Wrap(services.ErrConfiguration, "websites", "prepare", "no fetcher configured", nil)
	}
	web := env.Config.Websites
	var sources []pipeline.Source
	if url := strings.TrimSpace(web.LiveConfigURL); url != "" {
		sources = append(sources, urlSource{
			name: "live_config", fetcher: env.Fetcher, urls: []string{url},
			decode: verbatim("live_config", liveConfigFile),
		})
	}
	if urls := nonEmpty(web.HostBansFiltersURLs); len(urls) > 0 {
		sources = append(sources, urlSource{
			name: "host_bans", fetcher: env.Fetcher, urls: urls,
			decode: decodeHostBans,
		})
	}
	if url := strings.TrimSpace(web.HostBansIndexURL); url != "" {
		sources = append(sources, urlSource{
			name: "host_bans_index", fetcher: env.Fetcher, urls: []string{url},
			decode: verbatim("host_bans_index", hostBansIndexFile),
		})
	}
	if len(sources) == 0 {
		return Plan{}, services.Wrap(services.ErrConfiguration, "websites", "prepare", "no website URLs configured", nil)
	}
	return Plan{
		Sources: sources,
		Headline: func(summary pipeline.Summary) (string, error) {
			return updatedHeadline(env, summary), nil
		},
	}, nil
}

// updatedHeadline lists every written artifact, e.g.
// "18 October 2026 - Updated `UnturnedLiveConfig.dat`".
func updatedHeadline(env Env, summary pipeline.Summary) string {
	var paths []string
	for _, o := range summary.Outcomes {
		if o.State != pipeline.StateDone {
			continue
		}
		paths = append(paths, o.Paths...)
	}
	sort.Strings(paths)
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "`" + p + "`"
	}
	headline := env.now().Format(dateLayout) + " - Updated"
	if len(quoted) > 0 {
		headline += " " + strings.Join(quoted, ", ")
	}
	return headline
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Command shadow_compare replays read-only catalog and calendar requests
// against the Go API and the legacy deployment and reports response diffs.
// Exit code 1 means at least one critical endpoint diverged.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

// defaultTargets covers the public surface a logged-out visitor can hit.
var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/health", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/mentors", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/mentors?sort=rating", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/mentors?price_range=20-40&available_only=true", Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/mentors?sort=price_low&page=2&page_size=5", Critical: false},
	{Method: http.MethodGet, Path: "/api/v1/mentors?subject=math", Critical: false},
}

// volatileKeys are fields that legitimately differ between deployments and
// are stripped before comparison.
var volatileKeys = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"request_id": true,
	"expires_at": true,
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		mentorID    string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file overriding the built-in set")
	flag.StringVar(&mentorID, "mentor", "", "Mentor ID to also compare calendar and slot endpoints for")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}
	if mentorID != "" {
		targets = append(targets, calendarTargets(mentorID)...)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if t.Critical {
				breaking++
			} else if comp.Error == nil {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

// calendarTargets adds the month view and day slot endpoints for one mentor.
// The month under comparison is the current one on both sides.
func calendarTargets(mentorID string) []target {
	now := time.Now()
	return []target{
		{Method: http.MethodGet, Path: fmt.Sprintf("/api/v1/mentors/%s", mentorID), Critical: true},
		{Method: http.MethodGet, Path: fmt.Sprintf("/api/v1/mentors/%s/calendar?year=%d&month=%d", mentorID, now.Year(), int(now.Month())), Critical: true},
		{Method: http.MethodGet, Path: fmt.Sprintf("/api/v1/mentors/%s/slots?date=%s", mentorID, now.Format("2006-01-02")), Critical: true},
		{Method: http.MethodGet, Path: fmt.Sprintf("/api/v1/mentors/%s/reviews", mentorID), Critical: false},
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}

	goBody, goStatus, goDur, err := fetch(client, goBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyBody, legacyStatus, legacyDur, err := fetch(client, legacyBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody)
	return comp
}

func fetch(client *http.Client, base string, tgt target) ([]byte, int, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// bodiesEqual compares JSON payloads structurally after stripping volatile
// fields and normalizing numbers, so formatting and timestamps never count
// as diffs.
func bodiesEqual(a, b []byte) bool {
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			if volatileKeys[k] {
				delete(val, k)
				continue
			}
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Go: %d (%s) | Legacy: %d (%s)\n", res.GoStatus, res.DurationGo, res.LegacyStatus, res.DurationLegacy)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}

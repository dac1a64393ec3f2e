// Package encoder loads the external encoder runtime the application drives.
// The binaries are either found on PATH or fetched once per session from a
// pinned release; a failed load is terminal until restart.
package encoder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"
)

// State is the encoder runtime lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateLoadFailed    State = "load-failed"
)

// Pinned release the runtime assets are fetched from. Three assets per
// platform: the encoder, the prober, and the digest manifest.
const (
	runtimeVersion  = "b6.0"
	runtimeBaseURL  = "https://github.com/eugeneware/ffmpeg-static/releases/download/" + runtimeVersion
	manifestName    = "sha256sums.txt"
	downloadTimeout = 15 * time.Minute
)

// Runtime holds resolved paths to the loaded encoder binaries.
type Runtime struct {
	FFmpegPath  string `json:"ffmpegPath"`
	FFprobePath string `json:"ffprobePath"`
	Version     string `json:"version"`
}

// Loader resolves the encoder runtime exactly once per session. Only one
// load may be in flight; a Load while loading is a no-op, and a Load after
// failure returns the original error without retrying.
type Loader struct {
	mu      sync.Mutex
	state   State
	runtime Runtime
	loadErr error

	installDir string
	lookPath   func(string) (string, error)
	fetch      func(ctx context.Context, destination, url string) error
}

// NewLoader builds a loader installing downloaded assets under installDir.
func NewLoader(installDir string) *Loader {
	return &Loader{
		state:      StateUninitialized,
		installDir: installDir,
		lookPath:   exec.LookPath,
		fetch:      downloadURLToFile,
	}
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Runtime returns the loaded runtime, or an error when not ready.
func (l *Loader) Runtime() (Runtime, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady {
		return Runtime{}, fmt.Errorf("encoder runtime is not ready (state=%s)", l.state)
	}
	return l.runtime, nil
}

// Load resolves the runtime. Binaries already on PATH short-circuit the
// download. Safe to call repeatedly: ready returns nil, loading is a no-op,
// and load-failed keeps returning the original failure.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		l.mu.Unlock()
		return nil
	case StateLoading:
		l.mu.Unlock()
		return nil
	case StateLoadFailed:
		err := l.loadErr
		l.mu.Unlock()
		return err
	}
	l.state = StateLoading
	l.mu.Unlock()

	rt, err := l.resolve(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateLoadFailed
		l.loadErr = err
		return err
	}
	l.state = StateReady
	l.runtime = rt
	return nil
}

// resolve prefers system binaries and falls back to the pinned release.
func (l *Loader) resolve(ctx context.Context) (Runtime, error) {
	ffmpegPath, ffmpegErr := l.lookPath("ffmpeg")
	ffprobePath, ffprobeErr := l.lookPath("ffprobe")
	if ffmpegErr == nil && ffprobeErr == nil {
		return Runtime{
			FFmpegPath:  ffmpegPath,
			FFprobePath: ffprobePath,
			Version:     "system",
		}, nil
	}

	return l.downloadRuntime(ctx)
}

// downloadRuntime fetches the three pinned assets, verifies the binaries
// against the digest manifest, and marks them executable.
func (l *Loader) downloadRuntime(ctx context.Context) (Runtime, error) {
	suffix, err := platformSuffix()
	if err != nil {
		return Runtime{}, err
	}

	dir := filepath.Join(l.installDir, runtimeVersion)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Runtime{}, fmt.Errorf("create runtime directory: %w", err)
	}

	manifestPath := filepath.Join(dir, manifestName)
	if err := l.fetch(ctx, manifestPath, runtimeBaseURL+"/"+manifestName); err != nil {
		return Runtime{}, fmt.Errorf("fetch runtime manifest: %w", err)
	}
	manifest, err := parseManifest(manifestPath)
	if err != nil {
		return Runtime{}, err
	}

	ffmpegAsset := "ffmpeg-" + suffix
	ffprobeAsset := "ffprobe-" + suffix
	ffmpegPath := filepath.Join(dir, executableName("ffmpeg"))
	ffprobePath := filepath.Join(dir, executableName("ffprobe"))

	if err := l.fetchVerified(ctx, ffmpegPath, ffmpegAsset, manifest); err != nil {
		return Runtime{}, err
	}
	if err := l.fetchVerified(ctx, ffprobePath, ffprobeAsset, manifest); err != nil {
		return Runtime{}, err
	}

	return Runtime{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Version:     runtimeVersion,
	}, nil
}

// fetchVerified downloads one asset unless an already-verified copy exists.
func (l *Loader) fetchVerified(ctx context.Context, destination, asset string, manifest map[string]string) error {
	want, ok := manifest[asset]
	if !ok {
		return fmt.Errorf("runtime manifest has no digest for %s", asset)
	}

	if matches, err := fileDigestMatches(destination, want); err == nil && matches {
		return nil
	}

	if err := l.fetch(ctx, destination, runtimeBaseURL+"/"+asset); err != nil {
		return fmt.Errorf("fetch %s: %w", asset, err)
	}
	matches, err := fileDigestMatches(destination, want)
	if err != nil {
		return fmt.Errorf("digest %s: %w", asset, err)
	}
	if !matches {
		_ = os.Remove(destination)
		return fmt.Errorf("digest mismatch for %s", asset)
	}
	return os.Chmod(destination, 0o755)
}

// platformSuffix maps GOOS/GOARCH onto release asset naming.
func platformSuffix() (string, error) {
	var osName string
	switch goruntime.GOOS {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "darwin"
	case "windows":
		osName = "win32"
	default:
		return "", fmt.Errorf("no encoder runtime assets for OS %s", goruntime.GOOS)
	}

	var archName string
	switch goruntime.GOARCH {
	case "amd64":
		archName = "x64"
	case "arm64":
		archName = "arm64"
	default:
		return "", fmt.Errorf("no encoder runtime assets for arch %s", goruntime.GOARCH)
	}

	return osName + "-" + archName, nil
}

func executableName(base string) string {
	if goruntime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// parseManifest reads "hexdigest  assetname" lines.
func parseManifest(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read runtime manifest: %w", err)
	}

	manifest := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		manifest[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	if len(manifest) == 0 {
		return nil, fmt.Errorf("runtime manifest is empty")
	}
	return manifest, nil
}

// fileDigestMatches reports whether the file hashes to the expected digest.
func fileDigestMatches(path, want string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return false, err
	}
	return hex.EncodeToString(hash.Sum(nil)) == strings.ToLower(want), nil
}

// downloadURLToFile fetches a URL into place via a temp file and rename.
func downloadURLToFile(ctx context.Context, destinationPath, sourceURL string) error {
	if err := os.MkdirAll(filepath.Dir(destinationPath), 0o755); err != nil {
		return fmt.Errorf("prepare destination directory: %w", err)
	}

	tmpPath := destinationPath + ".download"
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale temp file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "video-compressor")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write destination file: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close destination file: %w", closeErr)
	}

	if err := os.Remove(destinationPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("remove old destination file: %w", err)
	}
	if err := os.Rename(tmpPath, destinationPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move downloaded file into place: %w", err)
	}

	return nil
}

// NewLoaderForTests creates a loader with injectable dependencies.
func NewLoaderForTests(
	installDir string,
	lookPath func(string) (string, error),
	fetch func(ctx context.Context, destination, url string) error,
) *Loader {
	return &Loader{
		state:      StateUninitialized,
		installDir: installDir,
		lookPath:   lookPath,
		fetch:      fetch,
	}
}

// Package vision downloads and decodes historical trade archives from the
// Binance Vision public data endpoint. It is the pipeline's ingestion
// adapter: it feeds ordered, validated trade records to the aggregation
// engines and owns every format quirk of the archives.
package vision

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const BaseURL = "https://data.binance.vision/data"

// MarketType selects the archive tree and the timestamp unit of its rows.
type MarketType string

const (
	// Spot archives carry microsecond timestamps and no CSV header.
	Spot MarketType = "spot"

	// Futures (USD-margined) archives carry millisecond timestamps and a
	// header row.
	Futures MarketType = "futures"
)

// Config holds downloader settings.
type Config struct {
	DownloadDir       string
	RequestsPerSecond float64
	RequestTimeout    time.Duration
}

func DefaultConfig(downloadDir string) *Config {
	return &Config{
		DownloadDir:       downloadDir,
		RequestsPerSecond: 2,
		RequestTimeout:    5 * time.Minute,
	}
}

// Client downloads trade archives with rate limiting and skip-if-exists
// caching.
type Client struct {
	cfg     *Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:  logger,
	}
}

// TradesURL builds the archive URL for one day or month of trades.
func TradesURL(symbol string, market MarketType, date time.Time, monthly bool) string {
	folder := "daily"
	dateStr := date.Format("2006-01-02")
	if monthly {
		folder = "monthly"
		dateStr = date.Format("2006-01")
	}

	marketPath := string(Spot)
	if market == Futures {
		marketPath = "futures/um"
	}

	symbol = strings.ToUpper(symbol)
	filename := fmt.Sprintf("%s-trades-%s.zip", symbol, dateStr)
	return fmt.Sprintf("%s/%s/%s/trades/%s/%s", BaseURL, marketPath, folder, symbol, filename)
}

// DownloadTrades fetches one archive into the download directory and returns
// the local zip path. Already-downloaded archives are not re-fetched.
func (c *Client) DownloadTrades(ctx context.Context, symbol string, market MarketType, date time.Time, monthly bool) (string, error) {
	url := TradesURL(symbol, market, date, monthly)
	dest := filepath.Join(c.cfg.DownloadDir, fmt.Sprintf("%s_%s", market, filepath.Base(url)))

	if _, err := os.Stat(dest); err == nil {
		c.logger.Debug("Archive already downloaded", "path", dest)
		return dest, nil
	}

	if err := os.MkdirAll(c.cfg.DownloadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	c.logger.Info("Downloading archive", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	// Write through a temp file so an interrupted download never poses as a
	// complete archive.
	tmp, err := os.CreateTemp(c.cfg.DownloadDir, "dl-*.zip")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	c.logger.Info("Downloaded archive", "path", dest)
	return dest, nil
}

// ExtractCSV unpacks the first .csv entry of an archive next to the zip and
// returns its path.
func ExtractCSV(zipPath string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".csv") {
			continue
		}

		dest := strings.TrimSuffix(zipPath, filepath.Ext(zipPath)) + ".csv"
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		out, err := os.Create(dest)
		if err != nil {
			rc.Close()
			return "", err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		return dest, nil
	}

	return "", fmt.Errorf("no csv entry in archive %s", zipPath)
}

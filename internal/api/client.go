package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client talks to a running generator's control api. Used by the top and
// status subcommands.
type Client struct {
	base string
	http *http.Client
}

func NewClient(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Status() (StatusResponse, error) {
	var st StatusResponse
	err := c.getJSON("/status", &st)
	return st, err
}

func (c *Client) PerfReport() (PerfReport, error) {
	var report PerfReport
	err := c.getJSON("/perf-report", &report)
	return report, err
}

// CPUPerf reads the plain-integer all-mode ops/sec.
func (c *Client) CPUPerf() (uint64, error) {
	return c.getPlainUint("/cpu-perf")
}

// BurstPerf reads the plain-integer burst-scoped ops/sec.
func (c *Client) BurstPerf() (uint64, error) {
	return c.getPlainUint("/burst-perf")
}

func (c *Client) StartCPU(mode string, utilization *int) error {
	body, err := json.Marshal(StartRequest{Mode: mode, Utilization: utilization})
	if err != nil {
		return errors.Wrap(err, "encode start request")
	}

	resp, err := c.http.Post(c.base+"/start-cpu", "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "post start-cpu")
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) EndCPU() error {
	resp, err := c.http.Post(c.base+"/end-cpu", "application/json", nil)
	if err != nil {
		return errors.Wrap(err, "post end-cpu")
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return errors.Wrapf(err, "get %s", path)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(out), "decode %s", path)
}

func (c *Client) getPlainUint(path string) (uint64, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return 0, errors.Wrapf(err, "get %s", path)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s", path)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	return n, errors.Wrapf(err, "parse %s", path)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, payload.Error)
	}
	return fmt.Errorf("unexpected response: %s", resp.Status)
}

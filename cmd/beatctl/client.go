package main

import (
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

func runGet(c *resty.Client, path string, out io.Writer) error {
	resp, err := c.R().Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err = fmt.Fprintln(out, resp.String())
	return err
}

func runPost(c *resty.Client, path string, body interface{}, out io.Writer) error {
	req := c.R()
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	if s := resp.String(); s != "" {
		_, err = fmt.Fprintln(out, s)
	}
	return err
}

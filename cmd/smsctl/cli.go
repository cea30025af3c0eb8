package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oggyb/chuanglan-sms/internal/sms"
	"github.com/olekukonko/tablewriter"
)

// Command runs smsctl subcommands against a gateway client.
type Command struct {
	Client sms.Client
	Out    io.Writer
}

// Run dispatches to the named subcommand.
func (c *Command) Run(ctx context.Context, name string, args []string) error {
	switch name {
	case "send":
		return c.send(ctx, args)
	case "quota":
		return c.quota(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

type sendResult struct {
	Recipients int    `json:"recipients"`
	Batches    int    `json:"batches"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
}

func (c *Command) send(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	to := fs.String("to", "", "comma separated recipient phone numbers")
	msg := fs.String("msg", "", "message content")
	sendType := fs.String("send-type", string(sms.SendTypePlain), "plain or long")
	sendTime := fs.String("send-time", "", "delivery time, YYYYMMDDHHMMSS")
	expiresAt := fs.String("expires-at", "", "expiry time, YYYYMMDDHHMMSS")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sms.SendType(*sendType) {
	case sms.SendTypePlain, sms.SendTypeLong:
	default:
		return fmt.Errorf("send-type must be 'plain' or 'long'")
	}

	recipients := sms.NormalizeRecipients(strings.Split(*to, ","))

	err := c.Client.Send(ctx, *msg, recipients, sms.SendOptions{
		SendTime:  *sendTime,
		SendType:  sms.SendType(*sendType),
		ExpiresAt: *expiresAt,
	})

	res := sendResult{
		Recipients: len(recipients),
		Batches:    (len(recipients) + sms.MaxRecipientsPerBatch - 1) / sms.MaxRecipientsPerBatch,
		Status:     "sent",
	}
	if err != nil {
		var smsErr *sms.Error
		if !errors.As(err, &smsErr) || smsErr.Kind == sms.KindValidation {
			return err
		}
		res.Status = "failed"
		res.Error = smsErr.Message
		res.Code = smsErr.Code
	}

	if *asJSON {
		if err := c.writeJSON(res); err != nil {
			return err
		}
	} else {
		table := tablewriter.NewWriter(c.Out)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Recipients", "Batches", "Status", "Code", "Error"})
		table.Append([]string{
			strconv.Itoa(res.Recipients),
			strconv.Itoa(res.Batches),
			res.Status,
			res.Code,
			res.Error,
		})
		table.Render()
	}

	return err
}

func (c *Command) quota(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quota", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining, err := c.Client.QueryQuota(ctx)
	if err != nil {
		return fmt.Errorf("failed to query quota: %w", err)
	}

	if *asJSON {
		return c.writeJSON(map[string]int{"remaining": remaining})
	}

	table := tablewriter.NewWriter(c.Out)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Remaining"})
	table.Append([]string{strconv.Itoa(remaining)})
	table.Render()
	return nil
}

func (c *Command) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(c.Out, string(data))
	return err
}

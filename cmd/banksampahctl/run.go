package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/polkiloo/banksampah/internal/adapter/ledgerapi"
	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/domain/model"
)

const (
	defaultServer = "http://localhost:8080"
	usage         = `usage: banksampahctl [-server URL] [-v] <command> [args]

commands:
  create NAME                 register an account
  deposit NAME MATERIAL KG    deposit recyclables
  redeem NAME REWARD          exchange points for a reward
  balance NAME                show the balance
  history NAME                show transactions, newest first
  accounts                    list accounts
  materials                   list material rates
  rewards                     list rewards
`
)

type command struct {
	args int
	exec func(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error
}

var commands = map[string]command{
	"create":    {1, createAccount},
	"deposit":   {3, deposit},
	"redeem":    {2, redeem},
	"balance":   {1, balance},
	"history":   {1, history},
	"accounts":  {0, accounts},
	"materials": {0, materials},
	"rewards":   {0, rewards},
}

func run(ctx context.Context, args []string, lookup func(string) (string, bool), stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("banksampahctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	server := defaultServer
	if v, ok := lookup("BANKSAMPAH_SERVER"); ok && v != "" {
		server = v
	}
	fs.StringVar(&server, "server", server, "API base URL")
	verbose := fs.Bool("v", false, "log HTTP failures to stderr")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "%v\n%s", err, usage)
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok || len(rest)-1 != cmd.args {
		fmt.Fprintf(stderr, "invalid command %q\n%s", rest[0], usage)
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	client, err := ledgerapi.NewClient(server, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := cmd.exec(ctx, client, stdout, rest[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, domainErrors.ErrPersistenceWrite) {
			return 3
		}
		return 1
	}
	return 0
}

func createAccount(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error {
	acc, err := c.CreateAccount(ctx, args[0])
	if acc.Name != "" {
		fmt.Fprintf(out, "Pengguna %s ditambahkan\n", acc.Name)
	}
	return err
}

func deposit(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error {
	weight, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return domainErrors.Subject(domainErrors.ErrInvalidWeight, "weight %q", args[2])
	}
	receipt, err := c.Deposit(ctx, args[0], args[1], weight)
	if receipt.Account != "" {
		fmt.Fprintf(out, "Berhasil menambahkan %s poin! | %s: %s poin\n",
			model.FormatPoints(receipt.PointsAdded), receipt.Account, model.FormatPoints(receipt.Balance))
	}
	return err
}

func redeem(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error {
	receipt, err := c.Redeem(ctx, args[0], args[1])
	if receipt.Account != "" {
		fmt.Fprintf(out, "Berhasil menukar %s! | %s: %s poin\n",
			receipt.Label, receipt.Account, model.FormatPoints(receipt.Balance))
	}
	return err
}

func balance(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error {
	summary, err := c.Balance(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s | Total Poin: %s\n", summary.Name, model.FormatPoints(summary.Balance))
	return nil
}

func history(ctx context.Context, c *ledgerapi.Client, out io.Writer, args []string) error {
	records, err := c.History(ctx, args[0])
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintln(out, r.Description)
	}
	return nil
}

func accounts(ctx context.Context, c *ledgerapi.Client, out io.Writer, _ []string) error {
	list, err := c.Accounts(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMA\tSALDO")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%s\n", a.Name, model.FormatPoints(a.Balance))
	}
	return tw.Flush()
}

func materials(ctx context.Context, c *ledgerapi.Client, out io.Writer, _ []string) error {
	list, err := c.Materials(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JENIS\tPOIN/KG")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\n", m.Material, model.FormatPoints(m.Rate))
	}
	return tw.Flush()
}

func rewards(ctx context.Context, c *ledgerapi.Client, out io.Writer, _ []string) error {
	list, err := c.Rewards(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KODE\tHADIAH\tPOIN")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Label, model.FormatPoints(r.Cost))
	}
	return tw.Flush()
}

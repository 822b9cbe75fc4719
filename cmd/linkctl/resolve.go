package main

import (
	"fmt"
	"strings"
	"time"

	"linkrelay/internal/credential"
	"linkrelay/internal/render"
	"linkrelay/internal/rules"
	"linkrelay/internal/service"
	"linkrelay/internal/visitor"

	"github.com/spf13/cobra"
)

type resolveFlags struct {
	password  string
	userAgent string
	ip        string
	country   string
	visitorID string
	at        string
}

func (c *cli) resolveCmd() *cobra.Command {
	f := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <short-code>",
		Short: "Show what a visitor would get, without recording a click",
		Example: `  linkctl resolve promo --country DE --ua "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile"
  linkctl resolve vault --password 'open sesame' --at 2026-01-05T09:30:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := f.visitor()
			if err != nil {
				return err
			}

			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			renderer, err := render.NewRenderer()
			if err != nil {
				return err
			}

			// no cache and no recorder: a dry run never touches counters
			svc := service.NewResolutionService(
				store,
				nil,
				credential.NewGuard(c.cfg.Credential.BcryptCost),
				rules.NewEvaluator(),
				renderer,
				nil,
				c.cfg.Resolver,
			)

			out, err := svc.Resolve(cmd.Context(), &service.ResolveRequest{
				ShortCode: args[0],
				Password:  f.password,
				Visitor:   info,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "outcome:  %s\n", out.Kind)
			switch out.Kind {
			case service.Redirect:
				fmt.Fprintf(w, "location: %s\n", out.Page.Location)
			case service.Interstitial:
				fmt.Fprintf(w, "page:     %d bytes of HTML\n", len(out.Page.HTML))
			case service.Denied:
				fmt.Fprintf(w, "reason:   %s\n", out.Reason)
			}
			fmt.Fprintf(w, "visitor:  device=%s country=%s continent=%s id=%s\n",
				info.Device, orDash(info.Region.Country), orDash(info.Region.Continent), info.VisitorID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.password, "password", "p", "", "link password to present")
	cmd.Flags().StringVar(&f.userAgent, "ua", "linkctl", "visitor user agent")
	cmd.Flags().StringVar(&f.ip, "ip", "127.0.0.1", "visitor address")
	cmd.Flags().StringVar(&f.country, "country", "", "visitor ISO country code")
	cmd.Flags().StringVar(&f.visitorID, "visitor", "", "visitor id for A/B bucketing, derived from ip and ua when empty")
	cmd.Flags().StringVar(&f.at, "at", "", "evaluate at this RFC 3339 instant instead of now")
	return cmd
}

func (f *resolveFlags) visitor() (visitor.Info, error) {
	now := time.Now().UTC()
	if f.at != "" {
		t, err := time.Parse(time.RFC3339, f.at)
		if err != nil {
			return visitor.Info{}, fmt.Errorf("invalid --at: %w", err)
		}
		now = t.UTC()
	}

	country := strings.ToUpper(strings.TrimSpace(f.country))
	id := f.visitorID
	if id == "" {
		id = visitor.HashVisitor(f.ip, f.userAgent)
	}

	return visitor.Info{
		IP:        f.ip,
		UserAgent: f.userAgent,
		Device:    visitor.ClassifyDevice(f.userAgent),
		Region:    visitor.Region{Country: country, Continent: visitor.ContinentOf(country)},
		VisitorID: id,
		Now:       now,
	}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

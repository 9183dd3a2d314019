package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/util"
)

func (a *app) registerAdminCommands() {
	a.registry.Register(&Command{
		Name:        "admin",
		Description: "Review disputes and KYC documents (admins only)",
		Usage:       "admin disputes | admin resolve <dispute id> <resolution> | admin kyc | admin approve <user id> | admin reject <user id> [note]",
		Auth:        true,
		Run:         a.admin,
	})
}

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("admin")
	}
	switch args[0] {
	case "disputes":
		ds, err := a.api.Admin.ListDisputes(ctx)
		if err != nil {
			return err
		}
		t := NewTableWriter("ID", "Match", "Raised by", "Reason", "Status")
		for _, d := range ds {
			t.AddRow(d.ID, d.MatchID, d.RaisedBy, d.Reason, d.Status)
		}
		t.Print(a.out)
		return nil
	case "resolve":
		if len(args) != 3 {
			return a.usage("admin")
		}
		if _, err := a.api.Admin.ResolveDispute(ctx, marketplace.ResolveDisputeInput{DisputeID: args[1], Resolution: util.StripMarkup(args[2])}); err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		a.success(ctx, "Dispute Resolved", "The parties have been notified.")
		return nil
	case "kyc":
		subs, err := a.api.Admin.ListPendingKYC(ctx)
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			fmt.Fprintln(a.out, "No pending KYC submissions.")
			return nil
		}
		t := NewTableWriter("User", "Name", "Document")
		for _, s := range subs {
			t.AddRow(s.UserID, s.FullName, s.DocumentURL)
		}
		t.Print(a.out)
		return nil
	case "approve", "reject":
		if len(args) < 2 {
			return a.usage("admin")
		}
		in := marketplace.ReviewKYCInput{
			UserID:   args[1],
			Approved: args[0] == "approve",
			Note:     util.StripMarkup(strings.Join(args[2:], " ")),
		}
		if _, err := a.api.Admin.ReviewKYC(ctx, in); err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		a.success(ctx, "KYC Reviewed", "The user has been notified.")
		return nil
	default:
		return a.usage("admin")
	}
}

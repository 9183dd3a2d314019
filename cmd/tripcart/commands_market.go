package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/util"
)

func (a *app) registerMarketCommands() {
	a.registry.Register(&Command{
		Name:        "requests",
		Description: "Browse and post shopping requests",
		Usage: "requests [list] | requests mine | requests create --product <name> --price <amount> [--description ..] " +
			"[--category ..] [--seller-location ..] [--required-by YYYY-MM-DD] | requests proof <purchase|delivery> <request id> <file>",
		Examples: []string{
			`requests create --product "Chanel No. 5" --price 120 --seller-location Paris`,
			"requests proof purchase 6f1c... receipt.jpg",
		},
		Run: a.requests,
	})
	a.registry.Register(&Command{
		Name:        "travel",
		Description: "Manage your travel plans",
		Usage: "travel list | travel more | travel create --from <city> --to <city> --depart YYYY-MM-DD --arrive YYYY-MM-DD " +
			"[--space <kg>] [--items ..] | travel cancel <itinerary id>",
		Auth: true,
		Run:  a.travel,
	})
	a.registry.Register(&Command{
		Name:        "suggest",
		Description: "Suggest travelers for one of your requests",
		Usage:       "suggest <request id>",
		Auth:        true,
		Run:         a.suggest,
	})
	a.registry.Register(&Command{
		Name:        "match",
		Description: "Ask a traveler to bring your item",
		Usage:       "match <request id> <itinerary id>",
		Auth:        true,
		Run:         a.match,
	})
	a.registry.Register(&Command{
		Name:        "accept",
		Description: "Accept a delivery request as the traveler",
		Usage:       "accept <match id>",
		Auth:        true,
		Run:         a.accept,
	})
	a.registry.Register(&Command{
		Name:        "deliver",
		Description: "Confirm that your item was delivered",
		Usage:       "deliver <match id>",
		Auth:        true,
		Run:         a.deliver,
	})
	a.registry.Register(&Command{
		Name:        "pay",
		Description: "Create an escrow payment or record the gateway confirmation",
		Usage:       "pay create <match id> <amount> [currency] | pay capture <order id> <payment id> <signature> | pay release <match id>",
		Auth:        true,
		Run:         a.pay,
	})
	a.registry.Register(&Command{
		Name:        "transactions",
		Description: "List your payments",
		Usage:       "transactions",
		Auth:        true,
		Run:         a.transactions,
	})
	a.registry.Register(&Command{
		Name:        "inbox",
		Description: "Show your notifications",
		Usage:       "inbox",
		Auth:        true,
		Run:         a.inbox,
	})
	a.registry.Register(&Command{
		Name:        "dispute",
		Description: "Raise a dispute about a match",
		Usage:       "dispute <match id> <reason>",
		Auth:        true,
		Run:         a.dispute,
	})
	a.registry.Register(&Command{
		Name:        "kyc",
		Description: "Submit your identity document",
		Usage:       "kyc <file>",
		Auth:        true,
		Run:         a.kyc,
	})
	a.registry.Register(&Command{
		Name:        "locations",
		Description: "Look up city names",
		Usage:       "locations <prefix>",
		Run:         a.locations,
	})
}

func (a *app) requests(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "list":
		items, err := a.api.Requests.List(ctx)
		if err != nil {
			return err
		}
		a.printRequests(items)
		return nil
	case "mine":
		if !a.sess.IsAuthenticated() {
			fmt.Fprintln(a.out, "Please log in first.")
			return errUsage
		}
		items, err := a.api.Requests.ListByUser(ctx, a.sess.UserID())
		if err != nil {
			return err
		}
		a.printRequests(items)
		return nil
	case "create":
		return a.createRequest(ctx, args)
	case "proof":
		return a.uploadProof(ctx, args)
	default:
		return a.usage("requests")
	}
}

func (a *app) printRequests(items []marketplace.ShoppingRequest) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No shopping requests.")
		return
	}
	t := NewTableWriter("ID", "Product", "Price", "From", "Status")
	for _, r := range items {
		t.AddRow(r.ID, util.Truncate(r.ProductName, 30), strconv.FormatFloat(r.Price, 'f', 2, 64), r.SellerLocation, r.Status)
	}
	t.Print(a.out)
}

func (a *app) createRequest(ctx context.Context, args []string) error {
	if !a.sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return errUsage
	}
	cmd, _ := a.registry.Lookup("requests")
	var f requestForm
	fs := cmd.NewFlagSet(a.out)
	fs.StringVar(&f.ProductName, "product", "", "product name")
	fs.StringVar(&f.Description, "description", "", "description")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.Float64Var(&f.Price, "price", 0, "price")
	fs.StringVar(&f.SellerLocation, "seller-location", "", "where the item is sold")
	fs.StringVar(&f.RequiredBy, "required-by", "", "deadline (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return a.invalid(ctx, err)
	}
	r, err := a.api.Requests.Create(ctx, f.request(a.sess.UserID()))
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Request Created", "Your shopping request has been posted.")
	fmt.Fprintln(a.out, r.ID)
	return nil
}

func (a *app) uploadProof(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return a.usage("requests")
	}
	if !a.sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return errUsage
	}
	up, closeFn, err := openUpload(args[2])
	if err != nil {
		fmt.Fprintln(a.out, err)
		return errUsage
	}
	defer closeFn()

	var res *marketplace.UploadResult
	switch args[0] {
	case "purchase":
		res, err = a.api.Requests.UploadPurchaseProof(ctx, args[1], up)
	case "delivery":
		res, err = a.api.Requests.UploadDeliveryProof(ctx, args[1], up)
	default:
		return a.usage("requests")
	}
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Proof Uploaded", "Your proof has been uploaded.")
	fmt.Fprintln(a.out, res.URL)
	return nil
}

func (a *app) travel(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("travel")
	}
	switch args[0] {
	case "list":
		a.travelPage = 1
		return a.showTravelPage(ctx)
	case "more":
		a.travelPage++
		return a.showTravelPage(ctx)
	case "create":
		return a.createItinerary(ctx, args[1:])
	case "cancel":
		if len(args) != 2 {
			return a.usage("travel")
		}
		if _, err := a.api.Itineraries.Cancel(ctx, args[1]); err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		a.success(ctx, "Trip Cancelled", "Your travel plan has been cancelled.")
		return nil
	default:
		return a.usage("travel")
	}
}

func (a *app) showTravelPage(ctx context.Context) error {
	items, err := a.api.Itineraries.ListByUser(ctx, a.sess.UserID())
	if err != nil {
		return err
	}
	page := marketplace.Paginate(items, max(a.travelPage, 1), marketplace.DefaultPageSize)
	if len(page.Items) == 0 {
		if page.Number > 1 {
			a.travelPage = page.Number - 1
			fmt.Fprintln(a.out, "No more travel plans.")
		} else {
			fmt.Fprintln(a.out, "No travel plans yet.")
		}
		return nil
	}
	t := NewTableWriter("ID", "From", "To", "Departs", "Arrives", "Space", "Status")
	for _, it := range page.Items {
		t.AddRow(it.ID, it.FromLocation, it.ToLocation,
			it.DepartureDate.Format(dateLayout), it.ArrivalDate.Format(dateLayout),
			strconv.FormatFloat(it.AvailableSpace, 'f', -1, 64), it.Status)
	}
	t.Print(a.out)
	if page.HasMore {
		fmt.Fprintf(a.out, "Showing %d of %d. Type 'travel more' for the next page.\n", page.Number*page.Size, page.Total)
	}
	return nil
}

func (a *app) createItinerary(ctx context.Context, args []string) error {
	if err := a.sess.RequireKYC(ctx); err != nil {
		return errUsage
	}
	cmd, _ := a.registry.Lookup("travel")
	var (
		f              itineraryForm
		depart, arrive string
	)
	fs := cmd.NewFlagSet(a.out)
	fs.StringVar(&f.FromLocation, "from", "", "departure city")
	fs.StringVar(&f.ToLocation, "to", "", "destination city")
	fs.StringVar(&depart, "depart", "", "departure date (YYYY-MM-DD)")
	fs.StringVar(&arrive, "arrive", "", "arrival date (YYYY-MM-DD)")
	fs.Float64Var(&f.AvailableSpace, "space", 0, "luggage space in kg")
	fs.StringVar(&f.PreferredItems, "items", "", "items you prefer to carry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var err error
	if f.DepartureDate, err = parseDate(depart); err != nil {
		fmt.Fprintf(a.out, "Invalid departure date %q, expected YYYY-MM-DD.\n", depart)
		return errUsage
	}
	if f.ArrivalDate, err = parseDate(arrive); err != nil {
		fmt.Fprintf(a.out, "Invalid arrival date %q, expected YYYY-MM-DD.\n", arrive)
		return errUsage
	}
	if err := f.validate(a.now()); err != nil {
		return a.invalid(ctx, err)
	}
	it, err := a.api.Itineraries.Create(ctx, f.itinerary(a.sess.UserID()))
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Trip Posted", "Your travel plan has been posted.")
	fmt.Fprintln(a.out, it.ID)
	return nil
}

func (a *app) suggest(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("suggest")
	}
	travelers, err := a.api.Itineraries.SuggestTravelers(ctx, args[0])
	if err != nil {
		return err
	}
	if len(travelers) == 0 {
		fmt.Fprintln(a.out, "No travelers found yet.")
		return nil
	}
	t := NewTableWriter("Itinerary", "Traveler", "Route", "Departs", "Score")
	for _, tr := range travelers {
		t.AddRow(tr.Itinerary.ID, tr.FullName,
			tr.Itinerary.FromLocation+" -> "+tr.Itinerary.ToLocation,
			tr.Itinerary.DepartureDate.Format(dateLayout),
			strconv.FormatFloat(tr.MatchScore, 'f', 2, 64))
	}
	t.Print(a.out)
	return nil
}

func (a *app) match(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("match")
	}
	m, err := a.api.Matches.Create(ctx, marketplace.CreateMatchInput{RequestID: args[0], ItineraryID: args[1]})
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Request Sent", "The traveler has been asked to bring your item.")
	fmt.Fprintln(a.out, m.ID)
	return nil
}

func (a *app) accept(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("accept")
	}
	if _, err := a.api.Matches.AcceptRequest(ctx, marketplace.AcceptRequestInput{MatchID: args[0], TravelerID: a.sess.UserID()}); err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Request Accepted", "The shopper has been notified.")
	return nil
}

func (a *app) deliver(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("deliver")
	}
	res, err := a.api.Matches.ConfirmDelivery(ctx, marketplace.ConfirmDeliveryInput{MatchID: args[0], ShopperID: a.sess.UserID()})
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Delivery Confirmed", util.Coalesce(res.Message, "Thank you for confirming delivery."))
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.usage("pay")
	}
	switch args[0] {
	case "create":
		if len(args) < 3 || len(args) > 4 {
			return a.usage("pay")
		}
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil || amount <= 0 {
			fmt.Fprintf(a.out, "Invalid amount %q.\n", args[2])
			return errUsage
		}
		in := marketplace.CreatePaymentInput{MatchID: args[1], Amount: amount, Currency: "INR"}
		if len(args) == 4 {
			in.Currency = args[3]
		}
		order, err := a.api.Payments.Create(ctx, in)
		if err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		fmt.Fprintf(a.out, "Order %s for %.2f %s created.\n", order.OrderID, order.Amount, order.Currency)
		return nil
	case "capture":
		if len(args) != 4 {
			return a.usage("pay")
		}
		if _, err := a.api.Payments.Capture(ctx, marketplace.CapturePaymentInput{OrderID: args[1], PaymentID: args[2], Signature: args[3]}); err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		a.success(ctx, "Payment Successful", "Your payment is held in escrow until delivery.")
		return nil
	case "release":
		if _, err := a.api.Payments.AutoRelease(ctx, marketplace.AutoReleaseInput{MatchID: args[1]}); err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		a.success(ctx, "Payment Released", "The payment has been released to the traveler.")
		return nil
	default:
		return a.usage("pay")
	}
}

func (a *app) transactions(ctx context.Context, _ []string) error {
	txs, err := a.api.Payments.ListTransactions(ctx, a.sess.UserID())
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return nil
	}
	t := NewTableWriter("ID", "Match", "Amount", "Status", "Date")
	for _, tx := range txs {
		t.AddRow(tx.ID, tx.MatchID, fmt.Sprintf("%.2f %s", tx.Amount, tx.Currency), tx.Status, tx.CreatedAt.Format(dateLayout))
	}
	t.Print(a.out)
	return nil
}

func (a *app) inbox(ctx context.Context, _ []string) error {
	items, err := a.api.Notifications.ListByUser(ctx, a.sess.UserID())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return nil
	}
	t := NewTableWriter("Type", "Title", "Message", "Date")
	for _, n := range items {
		t.AddRow(n.Type, n.Title, util.Truncate(n.Message, 50), n.CreatedAt.Format(dateLayout))
	}
	t.Print(a.out)
	return nil
}

func (a *app) dispute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("dispute")
	}
	reason := util.StripMarkup(args[1])
	if reason == "" {
		return a.usage("dispute")
	}
	d, err := a.api.Disputes.Raise(ctx, marketplace.RaiseDisputeInput{MatchID: args[0], RaisedBy: a.sess.UserID(), Reason: reason})
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.success(ctx, "Dispute Raised", "An admin will review your dispute.")
	fmt.Fprintln(a.out, d.ID)
	return nil
}

func (a *app) kyc(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("kyc")
	}
	up, closeFn, err := openUpload(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err)
		return errUsage
	}
	defer closeFn()
	if _, err := a.api.KYC.Upload(ctx, a.sess.UserID(), up); err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	if _, err := a.sess.RefreshProfile(ctx); err != nil {
		return err
	}
	a.success(ctx, "KYC Submitted", "Your document has been submitted for review.")
	return nil
}

func (a *app) locations(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("locations")
	}
	items, err := a.api.Locations.Suggest(ctx, args[0])
	if err != nil {
		return err
	}
	for _, l := range items {
		fmt.Fprintln(a.out, l.String())
	}
	return nil
}

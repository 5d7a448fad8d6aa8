// Command addrctl drives the pinbook API from a terminal the same way the
// mobile client does, through the client-side stores. It is the smoke-test
// tool used against a locally running pinbookd.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"pinbook/internal/client/notify"
	"pinbook/internal/client/remote"
	"pinbook/internal/client/remote/rest"
	"pinbook/internal/client/repository"
	"pinbook/internal/client/route"
	"pinbook/internal/client/store"
	"pinbook/internal/util"

	"github.com/docopt/docopt-go"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

const usage = `addrctl drives the pinbook API the way the mobile client does.

Usage:
  addrctl [options] register <email> <password> <first-name> <last-name> [<phone>]
  addrctl [options] addresses [--favorites]
  addrctl [options] add <title> <full-address> <lat> <lng> [--favorite]
  addrctl [options] toggle <address-id>
  addrctl [options] remove <address-id>
  addrctl [options] profile
  addrctl [options] sessions
  addrctl estimate <from-lat> <from-lng> <to-lat> <to-lng>
  addrctl -h | --help

Options:
  --url=<url>        Base URL of the API server [default: http://localhost:8080].
  --email=<email>    Account email for commands that need a session.
  --password=<pw>    Account password for commands that need a session.
  --device=<info>    Device descriptor reported on login [default: addrctl (CLI)].
  --favorites        List only favorite addresses.
  --favorite         Mark the new address as favorite.
  -h --help          Show this help.`

// app bundles the client-side stores behind one signed-in REST session.
type app struct {
	logger       *slog.Logger
	authStore    *store.AuthStore
	addressStore *store.AddressStore
	sessionStore *store.SessionStore
}

func main() {
	opts, err := docopt.ParseArgs(usage, nil, "addrctl 1.0")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "addrctl:", err)
		os.Exit(1)
	}
}

func run(opts docopt.Opts) error {
	ctx := context.Background()

	if is(opts, "estimate") {
		return runEstimate(opts)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	baseURL, _ := opts.String("--url")
	deviceInfo, _ := opts.String("--device")

	client := rest.New(baseURL, logger, rest.WithDeviceInfo(deviceInfo))
	accountRepo := repository.NewAccountRepository(client)
	addressRepo := repository.NewAddressRepository(client, notify.NewSlogNotifier(logger), logger)
	sessionRepo := repository.NewSessionRepository(client, deviceInfo)

	a := &app{
		logger:       logger,
		authStore:    store.NewAuthStore(accountRepo, logger),
		addressStore: store.NewAddressStore(addressRepo, logger),
		sessionStore: store.NewSessionStore(sessionRepo, logger),
	}

	if is(opts, "register") {
		return a.register(ctx, opts)
	}

	// Every remaining command works on an authenticated session.
	if err := a.signIn(ctx, opts); err != nil {
		return err
	}

	switch {
	case is(opts, "addresses"):
		return a.listAddresses(ctx, is(opts, "--favorites"))
	case is(opts, "add"):
		return a.addAddress(ctx, opts)
	case is(opts, "toggle"):
		return a.toggleFavorite(ctx, opts)
	case is(opts, "remove"):
		return a.removeAddress(ctx, opts)
	case is(opts, "profile"):
		return a.showProfile(ctx)
	case is(opts, "sessions"):
		return a.listSessions(ctx)
	}

	return fmt.Errorf("no command given")
}

func is(opts docopt.Opts, key string) bool {
	v, _ := opts.Bool(key)

	return v
}

func (a *app) signIn(ctx context.Context, opts docopt.Opts) error {
	email, _ := opts.String("--email")
	password, _ := opts.String("--password")
	if email == "" || password == "" {
		return fmt.Errorf("--email and --password are required for this command")
	}

	return a.authStore.SignIn(ctx, email, password)
}

func (a *app) register(ctx context.Context, opts docopt.Opts) error {
	email, _ := opts.String("<email>")
	password, _ := opts.String("<password>")
	firstName, _ := opts.String("<first-name>")
	lastName, _ := opts.String("<last-name>")
	phone, _ := opts.String("<phone>")

	input := remote.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}
	if err := a.authStore.SignUp(ctx, input); err != nil {
		return err
	}

	session := a.authStore.Session()
	fmt.Printf("registered %s, session open until %s\n", email, util.FormatTurkishDate(session.ExpiresAt))

	return nil
}

func (a *app) listAddresses(ctx context.Context, favoritesOnly bool) error {
	var addresses = a.addressStore.Addresses
	if favoritesOnly {
		a.addressStore.FetchFavorites(ctx)
		if a.addressStore.FavoritesStatus() == store.StatusFailed {
			return fmt.Errorf("%s", a.addressStore.FavoritesErr())
		}
		addresses = a.addressStore.Favorites
	} else {
		a.addressStore.Fetch(ctx)
		if a.addressStore.Status() == store.StatusFailed {
			return fmt.Errorf("%s", a.addressStore.Err())
		}
	}

	for _, address := range addresses() {
		marker := " "
		if address.IsFavorite {
			marker = "*"
		}
		fmt.Printf("%s %s  %-20s %s (%.4f, %.4f)\n",
			marker, address.ID, address.Title, address.FullAddress, address.Latitude, address.Longitude)
	}

	return nil
}

func (a *app) addAddress(ctx context.Context, opts docopt.Opts) error {
	title, _ := opts.String("<title>")
	fullAddress, _ := opts.String("<full-address>")
	lat, err := floatArg(opts, "<lat>")
	if err != nil {
		return err
	}
	lng, err := floatArg(opts, "<lng>")
	if err != nil {
		return err
	}

	address, err := a.addressStore.Add(ctx, repository.AddressDraft{
		Title:       title,
		FullAddress: fullAddress,
		Latitude:    lat,
		Longitude:   lng,
		IsFavorite:  is(opts, "--favorite"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("saved %s as %s\n", address.Title, address.ID)

	return nil
}

func (a *app) toggleFavorite(ctx context.Context, opts docopt.Opts) error {
	id, err := addressIDArg(opts)
	if err != nil {
		return err
	}

	a.addressStore.Fetch(ctx)
	if a.addressStore.Status() == store.StatusFailed {
		return fmt.Errorf("%s", a.addressStore.Err())
	}

	for _, address := range a.addressStore.Addresses() {
		if address.ID == id {
			updated, err := a.addressStore.ToggleFavorite(ctx, address)
			if err != nil {
				return err
			}
			fmt.Printf("%s favorite=%t\n", updated.Title, updated.IsFavorite)

			return nil
		}
	}

	return fmt.Errorf("address %s not found", id)
}

func (a *app) removeAddress(ctx context.Context, opts docopt.Opts) error {
	id, err := addressIDArg(opts)
	if err != nil {
		return err
	}

	if err := a.addressStore.Remove(ctx, id); err != nil {
		return err
	}

	fmt.Printf("removed %s\n", id)

	return nil
}

func (a *app) showProfile(ctx context.Context) error {
	a.authStore.LoadProfile(ctx)
	if a.authStore.Status() == store.StatusFailed {
		return fmt.Errorf("%s", a.authStore.Err())
	}

	user := a.authStore.User()
	if user == nil {
		return fmt.Errorf("no profile loaded")
	}

	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	if user.Phone != "" {
		fmt.Printf("phone: %s\n", user.Phone)
	}
	fmt.Printf("member since %s\n", util.FormatTurkishDate(user.CreatedAt))

	return nil
}

func (a *app) listSessions(ctx context.Context) error {
	a.sessionStore.Fetch(ctx)
	if a.sessionStore.Status() == store.StatusFailed {
		return fmt.Errorf("%s", a.sessionStore.Err())
	}

	for _, session := range a.sessionStore.Sessions() {
		current := ""
		if session.IsCurrent {
			current = " (bu cihaz)"
		}
		fmt.Printf("%s  %-28s %s%s\n", session.ID, session.DeviceInfo, session.LastActivity, current)
	}

	return nil
}

func runEstimate(opts docopt.Opts) error {
	fromLat, err := floatArg(opts, "<from-lat>")
	if err != nil {
		return err
	}
	fromLng, err := floatArg(opts, "<from-lng>")
	if err != nil {
		return err
	}
	toLat, err := floatArg(opts, "<to-lat>")
	if err != nil {
		return err
	}
	toLng, err := floatArg(opts, "<to-lng>")
	if err != nil {
		return err
	}

	estimate := route.Between(orb.Point{fromLng, fromLat}, orb.Point{toLng, toLat})
	fmt.Printf("%s, yaklaşık %s\n",
		route.FormatDistance(estimate.DistanceKm),
		route.FormatDuration(estimate.DurationMinutes))

	return nil
}

func floatArg(opts docopt.Opts, key string) (float64, error) {
	raw, _ := opts.String(key)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %q", key, raw)
	}

	return value, nil
}

func addressIDArg(opts docopt.Opts) (uuid.UUID, error) {
	raw, _ := opts.String("<address-id>")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid address id %q", raw)
	}

	return id, nil
}

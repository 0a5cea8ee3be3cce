// Command dealerctl is a command-line client for the dealership API. The
// session is kept on disk and refreshed automatically when it expires.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"dealership/internal/client"
	"dealership/internal/infra/qrcode"
	"dealership/internal/util"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const usage = `usage: dealerctl [flags] <command> [args]

commands:
  login [email]                 sign in and store the session
  logout                        forget the stored session
  whoami                        show the signed-in user
  cars                          list cars
  car <car>                     show one car and its images
  upload <car> <files...>       upload images in one all-or-nothing batch
  rm-image <car> <imageId>      delete one image

<car> is a car id or the listing URL scanned from its QR code.

flags:
`

type app struct {
	client *client.Client
	in     *bufio.Reader
	out    io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("dealerctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	defaultSession, err := client.DefaultSessionPath()
	if err != nil {
		defaultSession = filepath.Join(os.TempDir(), "dealership-session.json")
	}

	server := flags.String("server", envOr("DEALERSHIP_URL", "http://localhost:3000"), "API base URL")
	sessionPath := flags.String("session", defaultSession, "session file")
	timeout := flags.Duration("timeout", 30*time.Second, "per-command timeout")
	debug := flags.Bool("debug", false, "log refreshes and retries to stderr")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()

		return 2
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(*server,
		client.WithStore(client.NewFileStore(*sessionPath)),
		client.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)

		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	a := &app{client: c, in: bufio.NewReader(stdin), out: stdout}
	if err := a.dispatch(ctx, flags.Arg(0), flags.Args()[1:], stdin); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if client.IsAuthFailure(err) && !c.Session().LoggedIn() {
			fmt.Fprintln(stderr, "session expired, run `dealerctl login`")
		}

		return 1
	}

	return 0
}

func (a *app) dispatch(ctx context.Context, command string, args []string, stdin *os.File) error {
	switch command {
	case "login":
		return a.login(ctx, args, stdin)
	case "logout":
		a.client.Logout()
		fmt.Fprintln(a.out, "logged out")

		return nil
	case "whoami":
		return a.whoami()
	case "cars":
		return a.cars(ctx)
	case "car":
		if len(args) != 1 {
			return errors.New("usage: car <car>")
		}
		carID, err := carRef(args[0])
		if err != nil {
			return err
		}

		return a.car(ctx, carID)
	case "upload":
		if len(args) < 2 {
			return errors.New("usage: upload <car> <files...>")
		}
		carID, err := carRef(args[0])
		if err != nil {
			return err
		}

		return a.upload(ctx, carID, args[1:])
	case "rm-image":
		if len(args) != 2 {
			return errors.New("usage: rm-image <car> <imageId>")
		}
		carID, err := carRef(args[0])
		if err != nil {
			return err
		}
		if err := a.client.DeleteImage(ctx, carID, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "deleted", args[1])

		return nil
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string, stdin *os.File) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Fprint(a.out, "Email: ")
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrap(err, "failed to read email")
		}
		email = strings.TrimSpace(line)
	}

	password, err := a.promptPassword(stdin)
	if err != nil {
		return err
	}

	user, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if user != nil {
		fmt.Fprintf(a.out, "logged in as %s (%s)\n", user.Email, user.ID)
	}

	return nil
}

// promptPassword hides input on a terminal and reads a plain line otherwise.
func (a *app) promptPassword(stdin *os.File) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "failed to read password")
		}

		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(a.out, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	return string(raw), nil
}

func (a *app) whoami() error {
	state := a.client.Session().State()
	if state.AccessToken == "" {
		return client.ErrNoSession
	}
	if state.User == nil {
		fmt.Fprintln(a.out, "logged in")

		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", state.User.Email, state.User.ID)

	return nil
}

func (a *app) cars(ctx context.Context) error {
	cars, err := a.client.ListCars(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tYEAR\tPRICE")
	for _, car := range cars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", car.ID, car.Name, car.Brand, car.Year, car.Price)
	}

	return errors.WithStack(w.Flush())
}

func (a *app) car(ctx context.Context, id string) error {
	car, err := a.client.GetCar(ctx, id)
	if err != nil {
		return err
	}
	images, err := a.client.ListImages(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s (%d) %.2f\n", car.Brand, car.Name, car.Year, car.Price)
	fmt.Fprintf(a.out, "listed %s ago\n", util.FormatDuration(time.Since(car.CreatedAt)))
	for _, image := range images {
		fmt.Fprintf(a.out, "  %s  %s\n", image.ID, util.FormatBytes(int64(image.Size)))
	}

	return nil
}

func (a *app) upload(ctx context.Context, carID string, paths []string) error {
	files := make([]client.File, 0, len(paths))
	var total int64
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}
		checksum, err := util.Checksum(bytes.NewReader(data))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s  %s  sha256:%s\n", filepath.Base(path), util.FormatBytes(int64(len(data))), checksum[:12])

		files = append(files, client.File{Name: filepath.Base(path), Data: data})
		total += int64(len(data))
	}

	start := time.Now()
	images, err := a.client.UploadImages(ctx, carID, files)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "uploaded %d images (%s) in %s\n", len(images), util.FormatBytes(total), util.FormatDuration(time.Since(start)))
	for _, image := range images {
		fmt.Fprintln(a.out, " ", image.ID)
	}

	return nil
}

// carRef resolves a command's car argument, which may be a listing URL.
func carRef(arg string) (string, error) {
	if !strings.Contains(arg, "/") {
		return arg, nil
	}

	carID, err := qrcode.ParseListingURL(arg)
	if err != nil {
		return "", err
	}

	return carID.String(), nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

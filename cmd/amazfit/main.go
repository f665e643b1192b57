// Command amazfit fetches personal health data from the Huami/Zepp cloud
// using a manually extracted app token and user id.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/davrell/amazfit-go/amazfit"
)

const requestTimeout = 60 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Credentials may live in a .env file next to the binary.
	_ = godotenv.Load()

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "daily":
		err = runDaily(args)
	case "summary":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.DaySummary, error) {
			return c.Summary.List(ctx, start, end)
		}, renderSummary)
	case "stress":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.StressSample, error) {
			return c.Stress.List(ctx, start, end)
		}, renderStress)
	case "spo2":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.Spo2Sample, error) {
			return c.Spo2.List(ctx, start, end)
		}, renderSpo2)
	case "pai":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.PaiSample, error) {
			return c.Pai.List(ctx, start, end)
		}, renderPai)
	case "readiness":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.ReadinessSample, error) {
			return c.Readiness.List(ctx, start, end)
		}, renderReadiness)
	case "workouts":
		err = run(cmd, args, func(ctx context.Context, c *amazfit.Client, start, end time.Time) ([]amazfit.WorkoutRecord, error) {
			return c.Workout.List(ctx, start, end)
		}, renderWorkouts)
	case "token":
		fmt.Println(tokenHelp())
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "amazfit: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel.Render("Error:"), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`Usage: amazfit <command> [flags]

Commands:
  daily      Daily health data (steps, sleep, HR)
  summary    Aggregated summary (steps, sleep, stress, SpO2, PAI)
  stress     Daily stress data
  spo2       Blood oxygen (SpO2) data
  pai        PAI (Personal Activity Intelligence) data
  readiness  Readiness/recovery data (HRV, skin temp)
  workouts   Workout history
  token      How to extract your app token

Flags (per command):
  -d, --days N        number of days to fetch (default 7)
  --start-date DATE   start date (YYYY-MM-DD)
  --end-date DATE     end date (YYYY-MM-DD)
  -t, --token TOKEN   app token (overrides AMAZFIT_TOKEN)
  -u, --user-id ID    user id (overrides AMAZFIT_USER_ID)
  --time-zone ZONE    IANA time zone for SpO2 grouping
  --json              output JSON instead of a table
  --detailed          per-day breakdown with sleep phases and activity
                      stages (daily only)
`)
}

// commonFlags are the flags shared by every data command.
type commonFlags struct {
	days      int
	startDate string
	endDate   string
	token     string
	userID    string
	timeZone  string
	jsonOut   bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f := &commonFlags{}
	fs.IntVar(&f.days, "d", 7, "number of days to fetch")
	fs.IntVar(&f.days, "days", 7, "number of days to fetch")
	fs.StringVar(&f.startDate, "start-date", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.endDate, "end-date", "", "end date (YYYY-MM-DD)")
	fs.StringVar(&f.token, "t", "", "app token")
	fs.StringVar(&f.token, "token", "", "app token")
	fs.StringVar(&f.userID, "u", "", "user id")
	fs.StringVar(&f.userID, "user-id", "", "user id")
	fs.StringVar(&f.timeZone, "time-zone", "", "IANA time zone for SpO2 grouping")
	fs.BoolVar(&f.jsonOut, "json", false, "output JSON instead of a table")
	return fs, f
}

// client resolves credentials flag first, then environment, and builds the
// API client.
func (f *commonFlags) client() (*amazfit.Client, error) {
	token := f.token
	if token == "" {
		token = os.Getenv("AMAZFIT_TOKEN")
	}
	userID := f.userID
	if userID == "" {
		userID = os.Getenv("AMAZFIT_USER_ID")
	}
	if token == "" || userID == "" {
		return nil, fmt.Errorf("missing credentials: set AMAZFIT_TOKEN and AMAZFIT_USER_ID or pass --token and --user-id (run 'amazfit token' for extraction help)")
	}

	var opts []amazfit.Option
	tz := f.timeZone
	if tz == "" {
		tz = os.Getenv("AMAZFIT_TIME_ZONE")
	}
	if tz != "" {
		opts = append(opts, amazfit.WithTimeZone(tz))
	}

	return amazfit.NewClient(token, userID, opts...)
}

// dateRange resolves the query window: explicit dates win, otherwise the
// last N days ending today.
func (f *commonFlags) dateRange() (time.Time, time.Time, error) {
	end := time.Now()
	if f.endDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", f.endDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end-date %q: expected YYYY-MM-DD", f.endDate)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -f.days)
	if f.startDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", f.startDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start-date %q: expected YYYY-MM-DD", f.startDate)
		}
		start = parsed
	}

	return start, end, nil
}

// runDaily is the daily command. It is the one command with a second table
// shape, the per-day breakdown behind --detailed.
func runDaily(args []string) error {
	fs, flags := newFlagSet("daily")
	detailed := fs.Bool("detailed", false, "per-day breakdown with sleep phases and activities")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := flags.client()
	if err != nil {
		return err
	}
	defer client.Close()

	start, end, err := flags.dateRange()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	days, err := client.Daily.List(ctx, start, end)
	if err != nil {
		return err
	}

	if flags.jsonOut {
		out, err := json.MarshalIndent(days, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(days) == 0 {
		fmt.Println(dimStyle.Render("No data found for the specified date range."))
		return nil
	}

	if *detailed {
		fmt.Println(renderDailyDetailed(days))
		return nil
	}
	fmt.Println(renderDaily(days))
	return nil
}

// run is the shared fetch-and-print loop behind every data command.
func run[T any](
	name string,
	args []string,
	fetch func(context.Context, *amazfit.Client, time.Time, time.Time) ([]T, error),
	render func([]T) string,
) error {
	fs, flags := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := flags.client()
	if err != nil {
		return err
	}
	defer client.Close()

	start, end, err := flags.dateRange()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := fetch(ctx, client, start, end)
	if err != nil {
		return err
	}

	if flags.jsonOut {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(data) == 0 {
		fmt.Println(dimStyle.Render("No data found for the specified date range."))
		return nil
	}

	fmt.Println(render(data))
	return nil
}

func tokenHelp() string {
	return titleStyle.Render("How to Get Your Amazfit/Zepp App Token") + `

The API rate-limits automated login attempts, so the token is extracted
manually using one of these methods:

Method 1: Browser Developer Tools (easiest)

  1. Open https://user.huami.com/privacy2/index.html
  2. Log in with your Zepp/Amazfit credentials
  3. Open Developer Tools and go to the Network tab
  4. Click "Export Data" or refresh the page
  5. Find any request to api-mifit.huami.com
  6. The "apptoken" request header is your token
  7. The "userid" request parameter is your user id

Method 2: Zepp App (Android with root)

  The token is stored at:
    /data/data/com.huami.watch.hmwatchmanager/shared_prefs/hm_id_sdk_android.xml

Method 3: Network proxy (any platform)

  Run the Zepp app through mitmproxy, Charles or HTTP Toolkit and look for
  the "apptoken" header on any sync request.

Using your token:

  Put it in a .env file:
    AMAZFIT_TOKEN=your_token_here
    AMAZFIT_USER_ID=your_user_id_here

  Or pass it directly:
    amazfit daily --token YOUR_TOKEN --user-id YOUR_USER_ID

Tokens expire after roughly 90 days; extract a fresh one when requests
start failing with an auth error.`
}

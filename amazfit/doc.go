// Package amazfit provides a Go client for the private Huami/Zepp REST API
// used by Amazfit wearables.
//
// The API is not publicly documented; request shapes, parameter names and
// response envelopes reproduce what the official apps send. Authentication
// uses a pre-obtained app token carried in the apptoken header. Tokens expire
// out-of-band (roughly every 90 days) and must be re-extracted manually; the
// client performs no token acquisition or refresh.
//
// # Quick Start
//
//	client, err := amazfit.NewClient(token, userID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	end := time.Now()
//	start := end.AddDate(0, 0, -7)
//	stress, err := client.Stress.List(ctx, start, end)
//
// Each service returns per-day (or per-workout) records ordered ascending and
// restricted to the requested inclusive date range. All requests are
// read-only GETs issued sequentially; the only state retained between calls
// is the pooled HTTP connection, released by Close. A Client is not safe for
// concurrent use without external synchronization.
package amazfit

// internal/app/bootstrap/deps.go
package bootstrap

import (
	"go.uber.org/zap"

	"github.com/dalemusser/studyhub/internal/app/gateway"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/notify"
	"github.com/dalemusser/studyhub/internal/app/system/session"
)

// Deps bundles the long-lived collaborators the app is built from: the
// session holder, the API gateway, one store per resource, and the
// notification scheduler. Everything shares one logger and one session.
type Deps struct {
	Session *session.Holder
	API     *gateway.Client
	Groups  *groupstore.Store
	Rooms   *roomstore.Store
	Notify  *notify.Scheduler
}

// BuildDeps wires the application graph from config. The session is
// restored first so the gateway sends the persisted token from the
// very first request.
func BuildDeps(appCfg AppConfig, logger *zap.Logger) *Deps {
	sess := session.New(appCfg.SessionFile, []byte(appCfg.SessionKey), logger)
	api := gateway.New(appCfg.APIBaseURL, appCfg.HTTPTimeout, sess, logger)

	return &Deps{
		Session: sess,
		API:     api,
		Groups:  groupstore.New(api, logger),
		Rooms:   roomstore.New(api, logger),
		Notify:  notify.New(logger),
	}
}

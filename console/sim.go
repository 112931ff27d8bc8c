package console

import (
	"encoding/json"
	"fmt"
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
	"strings"
	"sync"
)

var simLog = logrus.WithField("module", "sim")

// SimBundle is one bundle in the simulator's inventory.
type SimBundle struct {
	SymbolicName string       `yaml:"symbolicName"`
	State        bundle.State `yaml:"state"`
	Location     string       `yaml:"location"`

	// SettleReads makes a Resolved bundle report Resolved for that many
	// status reads before it reports Active, mimicking slow activation.
	SettleReads int `yaml:"settleReads"`

	pendingReads int
	pendingState bundle.State
}

// Sim serves the remote console's bundle wire protocol from an in-memory
// inventory, for package tests and the consolesim command.
type Sim struct {
	mu      sync.Mutex
	bundles []*SimBundle
	router  *mux.Router
}

func NewSim(bundles []*SimBundle) *Sim {
	s := &Sim{bundles: bundles}
	for _, b := range s.bundles {
		if b.State == "" {
			b.State = bundle.StateActive
		}
		if b.SettleReads > 0 && b.State == bundle.StateResolved {
			b.pendingReads = b.SettleReads
			b.pendingState = bundle.StateActive
		}
	}
	s.router = mux.NewRouter()
	s.router.Methods("GET").Path(bundlesPath + ".json").HandlerFunc(s.handleFleetStatus)
	s.router.Methods("POST").Path(bundlesPath).HandlerFunc(s.handleFleetAction)
	s.router.Methods("GET").Path(bundlesPath + "/{symbolicName}").HandlerFunc(s.handleBundleStatus)
	s.router.Methods("POST").Path(bundlesPath + "/{symbolicName}").HandlerFunc(s.handleBundleAction)
	s.router.PathPrefix("/").Methods("POST").HandlerFunc(s.handleContent)
	return s
}

// Router exposes the simulator as an http.Handler, e.g. for httptest.
func (s *Sim) Router() http.Handler {
	return s.router
}

func (s *Sim) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// find returns the inventory entry for symbolicName, or nil.
// Callers must hold s.mu.
func (s *Sim) find(symbolicName string) *SimBundle {
	for _, b := range s.bundles {
		if b.SymbolicName == symbolicName {
			return b
		}
	}
	return nil
}

// advance settles one pending state transition step and returns the state the
// current read observes.
func advance(b *SimBundle) bundle.State {
	state := b.State
	if b.pendingReads > 0 {
		b.pendingReads--
		if b.pendingReads == 0 {
			b.State = b.pendingState
		}
	}
	return state
}

func (s *Sim) handleFleetStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := bundle.StatusPayload{Summary: make([]int, 5), Data: []bundle.Record{}}
	for _, b := range s.bundles {
		state := advance(b)
		payload.Data = append(payload.Data, bundle.Record{SymbolicName: b.SymbolicName, State: string(state)})
		payload.Summary[0]++
		switch state {
		case bundle.StateActive:
			payload.Summary[1]++
		case bundle.StateFragment:
			payload.Summary[2]++
		case bundle.StateResolved:
			payload.Summary[3]++
		case bundle.StateInstalled:
			payload.Summary[4]++
		}
	}
	json.NewEncoder(w).Encode(payload)
}

func (s *Sim) handleBundleStatus(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["symbolicName"], ".json")
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.find(name)
	if b == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rec := bundle.Record{SymbolicName: b.SymbolicName, State: string(advance(b))}
	if b.Location != "" {
		rec.Props = []bundle.Property{{Key: bundleLocationProp, Value: b.Location}}
	}
	json.NewEncoder(w).Encode(bundle.StatusPayload{Summary: []int{1, 0, 0, 0, 0}, Data: []bundle.Record{rec}})
}

func (s *Sim) handleBundleAction(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["symbolicName"]
	action := r.FormValue("action")
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.find(name)
	if b == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch action {
	case "start":
		if b.SettleReads > 0 {
			b.State = bundle.StateResolved
			b.pendingReads = b.SettleReads
			b.pendingState = bundle.StateActive
		} else {
			b.State = bundle.StateActive
		}
	case "stop":
		b.State = bundle.StateResolved
	case "uninstall":
		b.State = bundle.StateUninstalled
	case "refresh", "update":
		// state unchanged
	default:
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "unknown action `%s`", action)
		return
	}
	simLog.Debugf("bundle %s: action %s -> %s", b.SymbolicName, action, b.State)
}

func (s *Sim) handleFleetAction(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("action") != "refreshPackages" {
		w.WriteHeader(http.StatusBadRequest)
	}
}

// handleContent stands in for the server's content repository: bare POSTs
// create paths, file POSTs store artifacts, :operation=delete removes them.
func (s *Sim) handleContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.FormValue(":operation") == "delete" {
		for i, b := range s.bundles {
			if strings.TrimPrefix(b.Location, locationRepoPrefix) == r.URL.Path {
				simLog.Debugf("deleting %s at %s", b.SymbolicName, r.URL.Path)
				s.bundles = append(s.bundles[:i], s.bundles[i+1:]...)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.MultipartForm != nil && len(r.MultipartForm.File) > 0 {
		// artifact upload: track it as a freshly installed bundle
		for name := range r.MultipartForm.File {
			symbolicName := strings.TrimSuffix(name, ".jar")
			if b := s.find(symbolicName); b != nil {
				b.State = bundle.StateInstalled
			} else {
				s.bundles = append(s.bundles, &SimBundle{
					SymbolicName: symbolicName,
					State:        bundle.StateInstalled,
					Location:     locationRepoPrefix + r.URL.Path + "/" + name,
				})
			}
			simLog.Debugf("installed %s under %s", symbolicName, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		return
	}
	// bare POST: make the path
	w.WriteHeader(http.StatusCreated)
}

// LoadInventory reads the yaml inventory file of the consolesim command.
func LoadInventory(path string) ([]*SimBundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inv struct {
		Bundles []*SimBundle `yaml:"bundles"`
	}
	if err := yaml.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("console: cannot parse inventory %s: %s", path, err)
	}
	for _, b := range inv.Bundles {
		if b.SymbolicName == "" {
			return nil, fmt.Errorf("console: inventory %s: symbolicName is mandatory", path)
		}
		if b.State != "" {
			if _, err := bundle.StateFromWire(string(b.State)); err != nil {
				return nil, err
			}
		}
	}
	return inv.Bundles, nil
}

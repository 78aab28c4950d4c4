// Package appliance wires one appliance under test: the browser session,
// the navigation graph with every step registered, the REST client, the
// ledger and the collections built on them.
package appliance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/automate"
	"github.com/v2v-test/integration-tests/internal/browser"
	"github.com/v2v-test/integration-tests/internal/config"
	"github.com/v2v-test/integration-tests/internal/genericobject"
	"github.com/v2v-test/integration-tests/internal/logging"
	"github.com/v2v-test/integration-tests/internal/login"
	"github.com/v2v-test/integration-tests/internal/navigation"
	"github.com/v2v-test/integration-tests/internal/rest"
	"github.com/v2v-test/integration-tests/internal/store"
	"github.com/v2v-test/integration-tests/internal/v2v"
)

// Appliance is a fully wired appliance.
type Appliance struct {
	Config *config.Config
	Server *login.Server

	Browser *browser.SessionManager
	Graph   *navigation.Graph
	API     *rest.Client
	// Ledger is nil when the ledger is disabled.
	Ledger *store.Ledger

	Definitions *genericobject.DefinitionCollection
	Mappings    *v2v.InfrastructureMappingCollection
	Plans       *v2v.MigrationPlanCollection
	Dialogs     *automate.DialogCollection

	log *zap.Logger
}

// Boot wires the appliance described by cfg. The browser connects lazily,
// so REST-only callers never start Chrome.
func Boot(cfg *config.Config, logger *zap.Logger) (*Appliance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	boot := logging.For(logger, logging.CategoryBoot)

	sessions := browser.NewSessionManager(browser.ConfigFrom(cfg), logging.For(logger, logging.CategoryBrowser))
	return wire(cfg, sessions, sessions, logger, boot)
}

// BootWith wires cfg around an already connected driver. Used by tests and
// by callers managing their own browser.
func BootWith(cfg *config.Config, drv browser.Driver, logger *zap.Logger) (*Appliance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return wire(cfg, drv, nil, logger, logging.For(logger, logging.CategoryBoot))
}

func wire(cfg *config.Config, drv browser.Driver, sessions *browser.SessionManager, logger, boot *zap.Logger) (*Appliance, error) {
	a := &Appliance{
		Config:  cfg,
		Browser: sessions,
		Server: &login.Server{
			BaseURL:     cfg.Appliance.BaseURL,
			Credentials: login.Credentials{Username: cfg.Appliance.Username, Password: cfg.Appliance.Password},
		},
		log: boot,
	}

	a.Graph = navigation.New(drv, logging.For(logger, logging.CategoryNavigation), navigation.Options{
		Timeout: cfg.GetNavigationTimeout(),
		Delay:   cfg.GetWaitDelay(),
	})
	for _, register := range []func(*navigation.Graph) error{
		login.RegisterSteps,
		v2v.RegisterSteps,
		automate.RegisterSteps,
	} {
		if err := register(a.Graph); err != nil {
			return nil, fmt.Errorf("failed to register navigation steps: %w", err)
		}
	}

	a.API = rest.New(rest.Config{
		APIURL:    cfg.APIURL(),
		Username:  cfg.Appliance.Username,
		Password:  cfg.Appliance.Password,
		VerifySSL: cfg.Appliance.VerifySSL,
		Timeout:   cfg.GetRESTTimeout(),
	}, logging.For(logger, logging.CategoryREST))

	var rec genericobject.Recorder
	if cfg.Ledger.Enabled {
		l, err := store.OpenLedger(cfg.Ledger.Path, logging.For(logger, logging.CategoryLedger))
		if err != nil {
			_ = a.API.Close()
			return nil, err
		}
		a.Ledger = l
		rec = l
	}

	a.Definitions = genericobject.NewDefinitionCollection(a.API, rec, logging.For(logger, logging.CategoryGenericObj))
	a.Mappings = v2v.NewInfrastructureMappingCollection(a.Server, a.Graph, logging.For(logger, logging.CategoryV2V))
	a.Plans = v2v.NewMigrationPlanCollection(a.Server, a.Graph, logging.For(logger, logging.CategoryV2V))
	a.Dialogs = automate.NewDialogCollection(a.Server, a.Graph, logging.For(logger, logging.CategoryAutomate))

	boot.Info("appliance wired",
		zap.String("url", cfg.Appliance.BaseURL),
		zap.Int("steps", len(a.Graph.Steps())),
		zap.Bool("ledger", a.Ledger != nil))
	return a, nil
}

// Close shuts the browser down and releases the API client and the ledger.
func (a *Appliance) Close(ctx context.Context) error {
	var errs []error
	if a.Browser != nil {
		if err := a.Browser.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("browser: %w", err))
		}
	}
	if err := a.API.Close(); err != nil {
		errs = append(errs, fmt.Errorf("rest: %w", err))
	}
	if a.Ledger != nil {
		if err := a.Ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ledger: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Destination resolves a collection kind to the destination the CLI can
// navigate to.
func (a *Appliance) Destination(kind string) (navigation.Destination, error) {
	switch kind {
	case login.Kind:
		return a.Server, nil
	case v2v.KindMappings:
		return a.Mappings, nil
	case v2v.KindPlans:
		return a.Plans, nil
	case automate.KindDialogs:
		return a.Dialogs, nil
	}
	return nil, fmt.Errorf("no top level destination of kind %q", kind)
}

// Cleanup deletes every definition the ledger still lists. It returns the
// names removed; failures are collected and the rest are still attempted.
func (a *Appliance) Cleanup(ctx context.Context) ([]string, error) {
	if a.Ledger == nil {
		return nil, fmt.Errorf("ledger disabled")
	}
	entries, err := a.Ledger.List(ctx, genericobject.LedgerKind)
	if err != nil {
		return nil, err
	}
	var removed []string
	var errs []error
	for _, e := range entries {
		d := a.Definitions.Instantiate(e.Name, "", genericobject.Properties{})
		if err := d.Delete(ctx); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", e.Name, err))
			continue
		}
		// Not found on the appliance: drop the stale entry too.
		if err := a.Ledger.Forget(ctx, e.Kind, e.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, e.Name)
	}
	a.log.Info("cleanup done", zap.Int("removed", len(removed)), zap.Int("failed", len(errs)))
	return removed, errors.Join(errs...)
}

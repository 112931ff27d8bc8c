package main

import (
	"flag"
	"github.com/bundlectl/bundlectl/bundle"
	"github.com/bundlectl/bundlectl/console"
	"github.com/bundlectl/bundlectl/fleet"
	"github.com/sirupsen/logrus"
)

var mainLog = logrus.WithField("module", "bundlectl")

type LogLevelFlag struct {
	// flag.Value
	lvl logrus.Level
}

func (f *LogLevelFlag) String() string {
	return f.lvl.String()
}

func (f *LogLevelFlag) Set(val string) error {
	l, err := logrus.ParseLevel(val)
	if err == nil {
		f.lvl = l
	}
	return err
}

func main() {

	// Command Line Flags
	var (
		logLevel                                               = LogLevelFlag{logrus.InfoLevel}
		fleetFile                                              string
		symbolicName, version, installPath, artifactFile, group string
	)

	flag.Var(&logLevel, "log.level", "possible values: debug, info, warning, error, fatal, panic")
	flag.StringVar(&fleetFile, "fleet", "fleet.ini", "ini file describing the target servers, one section per server")
	flag.StringVar(&symbolicName, "bundle.symbolicName", "", "the bundle's symbolic name")
	flag.StringVar(&version, "bundle.version", "", "the bundle's version")
	flag.StringVar(&installPath, "bundle.installPath", "/apps/install", "repository path the bundle is installed under")
	flag.StringVar(&artifactFile, "bundle.file", "", "local bundle artifact to upload (install only)")
	flag.StringVar(&group, "group", "", "symbolic name fragment selecting the bundles to check (check only)")
	flag.Parse()

	logrus.SetLevel(logLevel.lvl)

	op := flag.Arg(0)
	if op == "" {
		mainLog.Fatal("no operation given. Usage: bundlectl [flags] <install|start|stop|refresh|update|uninstall|remove|refreshPackages|validate|check>")
	}

	servers, err := fleet.LoadFleetFile(fleetFile)
	if err != nil {
		mainLog.WithError(err).Fatal("cannot load fleet configuration")
	}
	f := &fleet.Fleet{Servers: servers, Executor: &console.Executor{}}
	mainLog.Infof("%s across %d servers", op, len(servers))

	switch op {
	case "refreshPackages":
		exitOnBad(f.RefreshPackages(), false)
	case "check":
		if group == "" {
			mainLog.Fatal("-group is mandatory for check")
		}
		if err := f.CheckActiveBundles(group); err != nil {
			mainLog.Fatal(err)
		}
	case "install":
		b := mustIdentity(symbolicName, version, installPath, artifactFile)
		resp, err := f.InstallBundle(b)
		if err != nil {
			mainLog.Fatal(err)
		}
		exitOnBad(resp, false)
	case "start":
		b := mustIdentity(symbolicName, version, installPath, artifactFile)
		exitOnBad(f.StartBundle(b), false)
		if err := f.ValidateAllBundles([]string{b.SymbolicName}); err != nil {
			mainLog.Fatal(err)
		}
	case "stop":
		exitOnBad(f.StopBundle(mustIdentity(symbolicName, version, installPath, artifactFile)), true)
	case "refresh":
		exitOnBad(f.RefreshBundle(mustIdentity(symbolicName, version, installPath, artifactFile)), false)
	case "update":
		exitOnBad(f.UpdateBundle(mustIdentity(symbolicName, version, installPath, artifactFile)), false)
	case "uninstall":
		exitOnBad(f.UninstallBundle(mustIdentity(symbolicName, version, installPath, artifactFile)), true)
	case "remove":
		exitOnBad(f.RemoveBundle(mustIdentity(symbolicName, version, installPath, artifactFile)), true)
	case "validate":
		b := mustIdentity(symbolicName, version, installPath, artifactFile)
		if err := f.ValidateAllBundles([]string{b.SymbolicName}); err != nil {
			mainLog.Fatal(err)
		}
	default:
		mainLog.Fatalf("unknown operation `%s`", op)
	}

	mainLog.Infof("%s finished", op)
}

func mustIdentity(symbolicName, version, installPath, artifactFile string) *bundle.Identity {
	b, err := bundle.NewIdentity(symbolicName, version, installPath)
	if err != nil {
		mainLog.Fatal(err)
	}
	if artifactFile != "" {
		b.Artifact = bundle.FileArtifact{Path: artifactFile}
	}
	return b
}

func exitOnBad(resp console.Response, missingIsOK bool) {
	if console.IsBadResponse(resp.Code, missingIsOK) {
		mainLog.Fatalf("fleet operation failed: %d: %s", resp.Code, resp.Body)
	}
}

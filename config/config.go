/*
Package config reads the configuration of the sitetree binary from the
command line flags and an optional YAML file.

The values from the file are applied first, then the flags set on the
command line override them. The mounted sites can only be declared in the
file, or as inline YAML with the -sites flag:

	address: :9090
	pages-file:
	- pages.yaml
	sites:
	- prefix: /
	  applications:
	  - name: main
	    views:
	    - name: home
	      body: <h1>{{ page.title }}</h1>{{ page.body }}
	      nav: true
	    - name: post
	      route: posts/<int:id>/
	      title: Post {{ id }}
	- prefix: /admin/
	  applications:
	  - name: admin
	    views:
	    - name: index
	      require-auth: true
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/zalando/sitetree"
	"github.com/zalando/sitetree/site"
)

// ViewConfig declares a static view.
type ViewConfig struct {
	Name        string `yaml:"name"`
	Route       string `yaml:"route"`
	Parent      string `yaml:"parent"`
	Title       string `yaml:"title"`
	Body        string `yaml:"body"`
	Nav         bool   `yaml:"nav"`
	RequireAuth bool   `yaml:"require-auth"`
}

// ApplicationConfig declares an application with its views.
type ApplicationConfig struct {
	Name  string       `yaml:"name"`
	Route string       `yaml:"route"`
	Views []ViewConfig `yaml:"views"`
}

// SiteConfig declares the applications mounted under a prefix.
type SiteConfig struct {
	Prefix       string              `yaml:"prefix"`
	Applications []ApplicationConfig `yaml:"applications"`
}

// SitesConfig lists the mounted sites in mount order.
type SitesConfig []SiteConfig

type Config struct {
	ConfigFile string
	Flags      *flag.FlagSet

	// generic:
	Address                    string        `yaml:"address"`
	SupportListener            string        `yaml:"support-listener"`
	WaitForHealthcheckInterval time.Duration `yaml:"wait-for-healthcheck-interval"`
	ComposeTimeout             time.Duration `yaml:"compose-timeout"`

	// sites and pages:
	Sites       *SitesConfig  `yaml:"sites"`
	PagesFiles  *multiFlag    `yaml:"pages-file"`
	PollTimeout time.Duration `yaml:"poll-timeout"`

	// logging:
	ApplicationLog            string `yaml:"application-log"`
	ApplicationLogLevelString string `yaml:"application-log-level"`
	ApplicationLogPrefix      string `yaml:"application-log-prefix"`
	AccessLog                 string `yaml:"access-log"`
	AccessLogDisabled         bool   `yaml:"access-log-disabled"`
	AccessLogJSONEnabled      bool   `yaml:"access-log-json-enabled"`

	// metrics:
	MetricsPrefix                string    `yaml:"metrics-prefix"`
	EnableRuntimeMetrics         bool      `yaml:"runtime-metrics"`
	HistogramMetricBucketsString string    `yaml:"histogram-metric-buckets"`
	HistogramMetricBuckets       []float64 `yaml:"-"`
}

const (
	defaultAddress              = ":9090"
	defaultSupportListener      = ":9911"
	defaultPollTimeout          = 3 * time.Second
	defaultComposeTimeout       = 30 * time.Second
	defaultApplicationLogLevel  = "INFO"
	defaultApplicationLogPrefix = "[APP]"
	defaultMetricsPrefix        = "sitetree"
)

func NewConfig() *Config {
	cfg := new(Config)
	cfg.PagesFiles = &multiFlag{}

	flag := flag.NewFlagSet("", flag.ExitOnError)
	flag.StringVar(&cfg.ConfigFile, "config-file", "", "if provided the flags will be loaded/overwritten by the values on the file (yaml)")

	// generic:
	flag.StringVar(&cfg.Address, "address", defaultAddress, "network address that the sites should be served on")
	flag.StringVar(&cfg.SupportListener, "support-listener", defaultSupportListener, "network address used for exposing the /metrics and /health endpoints. An empty value disables the support listener")
	flag.DurationVar(&cfg.WaitForHealthcheckInterval, "wait-for-healthcheck-interval", 0, "period waiting to become unhealthy in the loadbalancer pool in front of the server, before shutdown triggered by SIGTERM")
	flag.DurationVar(&cfg.ComposeTimeout, "compose-timeout", defaultComposeTimeout, "maximum time of waiting for the deferred parts of a response")

	// sites and pages:
	flag.Var(newYamlFlag(&cfg.Sites), "sites", "the mounted sites as inline YAML, see the documentation of the config package")
	flag.Var(cfg.PagesFiles, "pages-file", "file containing the pages overlaid on the routes, watched for changes. Can be repeated, the pages of later files win")
	flag.DurationVar(&cfg.PollTimeout, "poll-timeout", defaultPollTimeout, "polling interval of the page sources")

	// logging:
	flag.StringVar(&cfg.ApplicationLog, "application-log", "", "output file for the application log. When not set, /dev/stderr is used")
	flag.StringVar(&cfg.ApplicationLogLevelString, "application-log-level", defaultApplicationLogLevel, "log level for application logs, possible values: PANIC, FATAL, ERROR, WARN, INFO, DEBUG")
	flag.StringVar(&cfg.ApplicationLogPrefix, "application-log-prefix", defaultApplicationLogPrefix, "prefix for each log entry")
	flag.StringVar(&cfg.AccessLog, "access-log", "", "output file for the access log, When not set, /dev/stderr is used")
	flag.BoolVar(&cfg.AccessLogDisabled, "access-log-disabled", false, "when this flag is set, no access log is printed")
	flag.BoolVar(&cfg.AccessLogJSONEnabled, "access-log-json-enabled", false, "when this flag is set, log in JSON format is used")

	// metrics:
	flag.StringVar(&cfg.MetricsPrefix, "metrics-prefix", defaultMetricsPrefix, "namespace of the reported metrics")
	flag.BoolVar(&cfg.EnableRuntimeMetrics, "runtime-metrics", true, "enables reporting the Go runtime and process metrics")
	flag.StringVar(&cfg.HistogramMetricBucketsString, "histogram-metric-buckets", "", "use custom buckets for prometheus histograms, must be a comma-separated list of numbers")

	cfg.Flags = flag
	return cfg
}

func validate(c *Config) error {
	_, err := log.ParseLevel(c.ApplicationLogLevelString)
	if err != nil {
		return err
	}

	_, err = parseHistogramBuckets(c.HistogramMetricBucketsString, prometheus.DefBuckets)
	if err != nil {
		return err
	}

	if c.PollTimeout <= 0 {
		return fmt.Errorf("invalid poll timeout: %v", c.PollTimeout)
	}

	if c.ComposeTimeout <= 0 {
		return fmt.Errorf("invalid compose timeout: %v", c.ComposeTimeout)
	}

	if c.Sites != nil {
		for i, s := range *c.Sites {
			if s.Prefix == "" {
				return fmt.Errorf("site %d: missing prefix", i)
			}
		}
	}

	if _, err := c.Registry().Build(nil); err != nil {
		return fmt.Errorf("invalid sites: %w", err)
	}

	return nil
}

func (c *Config) Parse() error {
	return c.ParseArgs(os.Args[0], os.Args[1:])
}

func (c *Config) ParseArgs(progname string, args []string) error {
	c.Flags.Init(progname, flag.ExitOnError)
	err := c.Flags.Parse(args)
	if err != nil {
		return err
	}

	// check if arguments were correctly parsed.
	if len(c.Flags.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", c.Flags.Args())
	}

	if c.ConfigFile != "" {
		yamlFile, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}

		err = yaml.Unmarshal(yamlFile, c)
		if err != nil {
			return fmt.Errorf("unmarshalling config file error: %w", err)
		}

		err = c.Flags.Parse(args)
		if err != nil {
			return err
		}
	}

	if err := validate(c); err != nil {
		return err
	}

	c.HistogramMetricBuckets, _ = parseHistogramBuckets(c.HistogramMetricBucketsString, prometheus.DefBuckets)
	return nil
}

func defaultSites() SitesConfig {
	return SitesConfig{{
		Prefix: "/",
		Applications: []ApplicationConfig{{
			Name:  "pages",
			Views: []ViewConfig{{Name: "page", Nav: true}},
		}},
	}}
}

// Registry creates a registry with the configured sites mounted. When no
// sites are configured, a single view is mounted at the root, rendering the
// pages and their children.
func (c *Config) Registry() *site.Registry {
	sites := defaultSites()
	if c.Sites != nil && len(*c.Sites) > 0 {
		sites = *c.Sites
	}

	r := site.NewRegistry()
	for _, s := range sites {
		var apps []site.Application
		for _, a := range s.Applications {
			app := site.Application{Name: a.Name, Route: a.Route}
			for _, v := range a.Views {
				app.Views = append(app.Views, site.ViewDef{
					Name:   v.Name,
					Route:  v.Route,
					Parent: v.Parent,
					View: &site.StaticView{
						ViewName:    v.Name,
						Title:       v.Title,
						Body:        v.Body,
						Nav:         v.Nav,
						RequireAuth: v.RequireAuth,
					},
				})
			}

			apps = append(apps, app)
		}

		r.Mount(s.Prefix, apps...)
	}

	return r
}

func (c *Config) ToOptions() sitetree.Options {
	return sitetree.Options{
		Address:                    c.Address,
		SupportListener:            c.SupportListener,
		WaitForHealthcheckInterval: c.WaitForHealthcheckInterval,
		ComposeTimeout:             c.ComposeTimeout,

		Registry:    c.Registry(),
		PagesFiles:  c.PagesFiles.values(),
		PollTimeout: c.PollTimeout,

		ApplicationLogOutput: c.ApplicationLog,
		ApplicationLogLevel:  c.ApplicationLogLevelString,
		ApplicationLogPrefix: c.ApplicationLogPrefix,
		AccessLogOutput:      c.AccessLog,
		AccessLogDisabled:    c.AccessLogDisabled,
		AccessLogJSONEnabled: c.AccessLogJSONEnabled,

		MetricsPrefix:        c.MetricsPrefix,
		EnableRuntimeMetrics: c.EnableRuntimeMetrics,
		HistogramBuckets:     c.HistogramMetricBuckets,
	}
}

func parseHistogramBuckets(bucketString string, defaultBuckets []float64) ([]float64, error) {
	if bucketString == "" {
		return defaultBuckets, nil
	}

	var result []float64
	thresholds := strings.Split(bucketString, ",")
	for _, v := range thresholds {
		bucket, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse histogram-metric-buckets: %w", err)
		}

		result = append(result, bucket)
	}

	return result, nil
}

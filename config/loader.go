package config

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
)

// A hard error causes the loader to stop immediately.
type HardError struct {
	Err error
}

func (self HardError) Error() string {
	return self.Err.Error()
}

func (self HardError) Unwrap() error {
	return self.Err
}

type loaderFunction struct {
	name        string
	loader_func func(self *Loader) (*config_proto.Config, error)
}

type configMutator struct {
	name                string
	config_mutator_func func(self *config_proto.Config) error
}

type validatorFunction struct {
	name      string
	validator func(self *Loader, config_obj *config_proto.Config) error
}

// Tries each loader in turn until one produces a config, then
// applies mutators and validators to it.
type Loader struct {
	verbose bool

	loaders         []loaderFunction
	config_mutators []configMutator
	validators      []validatorFunction

	logger *logging.LogContext
}

func NewLoader() *Loader {
	return &Loader{}
}

func (self *Loader) WithVerbose(verbose bool) *Loader {
	self = self.Copy()
	self.verbose = verbose
	return self
}

func (self *Loader) WithConfigMutator(
	name string,
	mutator func(self *config_proto.Config) error) *Loader {
	self = self.Copy()
	self.config_mutators = append(self.config_mutators, configMutator{
		name:                name,
		config_mutator_func: mutator,
	})
	return self
}

func (self *Loader) WithCustomValidator(
	name string,
	validator func(config_obj *config_proto.Config) error) *Loader {
	self = self.Copy()
	self.validators = append(self.validators, validatorFunction{
		name: name,
		validator: func(self *Loader, config_obj *config_proto.Config) error {
			return validator(config_obj)
		}})
	return self
}

// Require the change log directory to be set by one of the config
// sources or a mutator.
func (self *Loader) WithRequiredDirectory() *Loader {
	return self.WithCustomValidator("WithRequiredDirectory",
		func(config_obj *config_proto.Config) error {
			if config_obj.ChangeLog == nil ||
				config_obj.ChangeLog.Directory == "" {
				return errors.New("ChangeLog.directory is required")
			}
			return nil
		})
}

func (self *Loader) WithDefaultLoader() *Loader {
	self = self.Copy()
	self.loaders = append(self.loaders, loaderFunction{
		name: "WithDefaultLoader",
		loader_func: func(self *Loader) (*config_proto.Config, error) {
			self.Log("Using default config")
			return GetDefaultConfig(), nil
		}})
	return self
}

func (self *Loader) WithFileLoader(filename string) *Loader {
	if filename != "" {
		self = self.Copy()
		self.loaders = append(self.loaders, loaderFunction{
			name: "WithFileLoader",
			loader_func: func(self *Loader) (*config_proto.Config, error) {
				self.Log("Loading config from file %v", filename)
				result, err := LoadConfig(filename)
				if err != nil {
					// If a filename is specified but it
					// does not exist or invalid stop
					// searching immediately.
					return result, HardError{err}
				}
				return result, nil
			}})
	}
	return self
}

func (self *Loader) WithLiteralLoader(serialized []byte) *Loader {
	if len(serialized) > 0 {
		self = self.Copy()
		self.loaders = append(self.loaders, loaderFunction{
			name: "WithLiteralLoader",
			loader_func: func(self *Loader) (*config_proto.Config, error) {
				self.Log("Loading constant config")
				result, err := ParseConfigFromString(serialized)
				if err != nil {
					return nil, HardError{err}
				}
				return result, nil
			}})
	}
	return self
}

func (self *Loader) WithEnvLoader(env_var string) *Loader {
	self = self.Copy()
	self.loaders = append(self.loaders, loaderFunction{
		name: "WithEnvLoader",
		loader_func: func(self *Loader) (*config_proto.Config, error) {
			env_config := os.Getenv(env_var)
			if env_config != "" {
				self.Log("Loading config from env %v (%v)", env_var, env_config)
				return LoadConfig(env_config)
			}
			return nil, fmt.Errorf("Env var %v is not set", env_var)
		}})
	return self
}

func (self *Loader) Copy() *Loader {
	return &Loader{
		verbose:         self.verbose,
		logger:          self.logger,
		loaders:         append([]loaderFunction{}, self.loaders...),
		validators:      append([]validatorFunction{}, self.validators...),
		config_mutators: append([]configMutator{}, self.config_mutators...),
	}
}

func (self *Loader) Log(format string, v ...interface{}) {
	if self.logger == nil {
		if self.verbose {
			logging.Prelog(format, v...)
		}
	} else {
		self.logger.Info(format, v...)
	}
}

func (self *Loader) Validate(config_obj *config_proto.Config) error {
	var err error

	logging.Reset()
	logging.SuppressLogging = !self.verbose

	// Mark the config as verbose.
	config_obj.Verbose = self.verbose

	// Apply any configuration mutators
	for _, mutator := range self.config_mutators {
		err = mutator.config_mutator_func(config_obj)
		if err != nil {
			return err
		}
	}

	err = ValidateConfig(config_obj)
	if err != nil {
		return err
	}

	// Initialize the logging now that we have a valid config.
	err = logging.InitLogging(config_obj)
	if err != nil {
		return err
	}

	// Set the logger for the rest of the loading process.
	self.logger = logging.GetLogger(config_obj, &logging.ToolComponent)

	for _, validator := range self.validators {
		err = validator.validator(self, config_obj)
		if err != nil {
			self.Log("%v", err)
			return err
		}
	}

	return nil
}

func (self *Loader) LoadAndValidate() (*config_proto.Config, error) {
	for _, loader := range self.loaders {
		result, err := loader.loader_func(self)
		if err == nil {
			return result, self.Validate(result)
		}

		// Stop on hard errors.
		_, ok := err.(HardError)
		if ok {
			return nil, err
		}
		self.Log("%v", err)
	}

	return nil, errors.New("Unable to load config from any source.")
}

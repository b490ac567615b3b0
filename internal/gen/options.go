package gen

import (
	"fmt"
	"os"
)

// GenerateOptions holds options for Generate.
type GenerateOptions struct {
	// Header will be inserted at the start of each generated file.
	Header []byte

	// PrefixOutputFile is the prefix of the file name to write the generated
	// output to. The suffix will be "recmock_gen.go".
	PrefixOutputFile string

	// Tags is a list of additional build tags to add to the generated file.
	Tags string

	// Dir is the directory to run the build system's query tool
	// that provides information about the packages.
	// If Dir is empty, the tool is run in the current directory.
	Dir string

	// Env is the environment to use when invoking the build system's query tool.
	// If Env is nil, the current environment is used.
	Env []string
}

// GenerateOption sets a field of GenerateOptions.
type GenerateOption func(*GenerateOptions) error

// WithArgs applies every argument that is a GenerateOption. It lets
// callers pass options through the untyped arguments of a subcommand.
func WithArgs(args ...any) GenerateOption {
	return func(opts *GenerateOptions) error {
		for _, arg := range args {
			opt, ok := arg.(GenerateOption)
			if !ok {
				return fmt.Errorf("unexpected argument of type %T", arg)
			}
			if err := opt(opts); err != nil {
				return err
			}
		}
		return nil
	}
}

func WithDir(dir string) GenerateOption {
	return func(opts *GenerateOptions) error {
		opts.Dir = dir
		return nil
	}
}

// WithWDFallback sets Dir to the working directory unless already set.
func WithWDFallback() GenerateOption {
	return func(opts *GenerateOptions) (err error) {
		if opts.Dir != "" {
			return nil
		}
		opts.Dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		return nil
	}
}

func WithEnv(env []string) GenerateOption {
	return func(opts *GenerateOptions) error {
		opts.Env = env
		return nil
	}
}

// WithHeaderFile reads the header from path. An empty path is ignored.
func WithHeaderFile(path string) GenerateOption {
	return func(opts *GenerateOptions) (err error) {
		if path == "" {
			return nil
		}
		opts.Header, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read header file %q: %w", path, err)
		}
		return nil
	}
}

func WithPrefixFileName(prefix string) GenerateOption {
	return func(opts *GenerateOptions) error {
		opts.PrefixOutputFile = prefix
		return nil
	}
}

func WithTags(tags string) GenerateOption {
	return func(opts *GenerateOptions) error {
		opts.Tags = tags
		return nil
	}
}

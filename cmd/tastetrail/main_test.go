package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestAIFlags(t *testing.T) {
	flags := aiFlags()

	t.Run("ai-host has local default", func(t *testing.T) {
		var hostFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "ai-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("embedding-model has default value", func(t *testing.T) {
		var modelFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-model" {
				modelFlag = f
				break
			}
		}
		require.NotNil(t, modelFlag)
		assert.Equal(t, "bge-m3", modelFlag.Value)
	})

	t.Run("parser-model has default value", func(t *testing.T) {
		var modelFlag *cli.StringFlag
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "parser-model" {
				modelFlag = f
				break
			}
		}
		require.NotNil(t, modelFlag)
		assert.Equal(t, "qwen2.5:3b", modelFlag.Value)
	})

	t.Run("embedding-rate-limit defaults to 10", func(t *testing.T) {
		var rateFlag *cli.Float64Flag
		for _, flag := range flags {
			if f, ok := flag.(*cli.Float64Flag); ok && f.Name == "embedding-rate-limit" {
				rateFlag = f
				break
			}
		}
		require.NotNil(t, rateFlag)
		assert.Equal(t, 10.0, rateFlag.Value)
	})
}

func TestAIConfigFromFlags(t *testing.T) {
	t.Run("defaults produce a valid config", func(t *testing.T) {
		app := &cli.App{
			Name:  "test",
			Flags: aiFlags(),
			Action: func(c *cli.Context) error {
				config, err := aiConfigFromFlags(c)
				require.NoError(t, err)
				assert.Equal(t, "http://localhost:11434/v1", config.EmbeddingHost)
				assert.Equal(t, "http://localhost:11434/v1", config.ParserHost)
				assert.Equal(t, "bge-m3", config.EmbeddingModel)
				assert.Equal(t, "qwen2.5:3b", config.ParserModel)
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test"}))
	})

	t.Run("host without /v1 suffix is normalized", func(t *testing.T) {
		app := &cli.App{
			Name:  "test",
			Flags: aiFlags(),
			Action: func(c *cli.Context) error {
				config, err := aiConfigFromFlags(c)
				require.NoError(t, err)
				assert.Equal(t, "http://embeddings:8000/v1", config.EmbeddingHost)
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test", "--ai-host", "http://embeddings:8000"}))
	})

	t.Run("empty embedding model fails validation", func(t *testing.T) {
		app := &cli.App{
			Name:  "test",
			Flags: aiFlags(),
			Action: func(c *cli.Context) error {
				_, err := aiConfigFromFlags(c)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "EmbeddingModel")
				return nil
			},
		}
		require.NoError(t, app.Run([]string{"test", "--embedding-model", ""}))
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "info", level)
				return nil
			},
		}

		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}

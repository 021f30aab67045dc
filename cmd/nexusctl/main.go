package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nexus-backend/internal/config"
	"nexus-backend/internal/models"
	"nexus-backend/internal/services"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexusctl",
		Short: "Talk to Nexus Alpha from the terminal",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.SetEnvPrefix("NEXUS")
			viper.AutomaticEnv()
			if level, err := log.ParseLevel(viper.GetString("log_level")); err == nil {
				log.SetLevel(level)
			}
		},
	}

	rootCmd.PersistentFlags().String("model", "", "Gemini model (default from GEMINI_MODEL)")
	rootCmd.PersistentFlags().Float32("temperature", 0, "sampling temperature (default from GEMINI_TEMPERATURE)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "timeout per advice request (default from ADVICE_TIMEOUT)")
	rootCmd.PersistentFlags().String("log-level", "warn", "logrus level")
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask a single question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := askPrompt(args)
			if err != nil {
				return err
			}

			client := newAdviceClient()
			defer client.Close()

			fmt.Fprintln(cmd.OutOrStdout(), client.GetAdvice(cmd.Context(), prompt))
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Open an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAdviceClient()
			defer client.Close()

			return runChat(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func askPrompt(args []string) (string, error) {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return "", services.ErrEmptyMessage
	}
	return prompt, nil
}

// Flags and NEXUS_* variables win over the server's GEMINI_* settings.
func newAdviceClient() *services.AdviceClient {
	env := config.LoadAdvisor()

	apiKey := env.GeminiAPIKey
	if key := viper.GetString("gemini_api_key"); key != "" {
		apiKey = key
	}
	model := env.Model
	if m := viper.GetString("model"); m != "" {
		model = m
	}
	temperature := env.Temperature
	if t := float32(viper.GetFloat64("temperature")); t > 0 {
		temperature = t
	}
	timeout := env.Timeout
	if d := viper.GetDuration("timeout"); d > 0 {
		timeout = d
	}

	return services.NewAdviceClient(
		services.NewGeminiOpener(apiKey),
		services.NewAdvisorConfig(model, temperature, timeout),
	)
}

// printer writes every appended transcript entry as it arrives.
type printer struct {
	out io.Writer
}

func (p printer) Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	appended, ok := msg.Payload.(models.MessageAppended)
	if !ok || appended.Message.Role != models.RoleAssistant {
		return
	}
	fmt.Fprintf(p.out, "\nNexus Alpha: %s\n\n", appended.Message.Content)
}

func runChat(ctx context.Context, advisor services.Advisor, in io.Reader, out io.Writer) error {
	session := services.NewSession(advisor, services.WithNotifier(printer{out: out}))
	session.Open()

	for _, msg := range session.Transcript() {
		fmt.Fprintf(out, "Nexus Alpha: %s\n\n", msg.Content)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "/quit" || text == "/exit" {
			break
		}

		if _, err := session.SendUserMessage(ctx, text); err != nil {
			if errors.Is(err, services.ErrEmptyMessage) {
				continue
			}
			return err
		}
		if ctx.Err() != nil {
			break
		}
	}
	session.Close()
	return scanner.Err()
}

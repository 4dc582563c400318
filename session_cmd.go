package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/console"
	"github.com/nonsonwune/admitere_admin/preflight"
)

func newConsoleCmd(a *app) *cobra.Command {
	var skipPreflight bool
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Consola interactiva de administrare",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !skipPreflight {
				if err := preflight.Verify(ctx, a.client); err != nil {
					a.logger.WithError(err).Warn("Preflight check failed")
				}
			}
			c := console.New(a.client, a.gate, cmd.InOrStdin(), out(cmd), console.OptionsFrom(a.cfg), a.logger)
			return c.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not probe the admin endpoints before starting")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, parola string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Autentificare; sesiunea este pastrata intre comenzi",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return withCode(exitUsage, errors.New("--email is required"))
			}
			if parola == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Parola: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return withCode(exitUsage, errors.Wrap(err, "read password"))
				}
				parola = strings.TrimRight(line, "\r\n")
			}
			sc, err := a.gate.Login(cmd.Context(), email, parola)
			if err != nil {
				msg := apiclient.Message(err)
				if msg == "" {
					msg = "Autentificare esuata."
				}
				return withCode(exitSession, errors.New(msg))
			}
			fmt.Fprintf(out(cmd), "Conectat ca %s\n", sc.Admin.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&parola, "parola", "", "Password; read from stdin when omitted")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Inchide sesiunea curenta",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc, _ := a.gate.Mount(ctx)
			if err := a.gate.Logout(ctx, sc); err != nil {
				msg := apiclient.Message(err)
				if msg == "" {
					msg = "Eroare la deconectare."
				}
				return withCode(exitRemote, errors.New(msg))
			}
			fmt.Fprintln(out(cmd), "Deconectat.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Afiseaza administratorul autentificat",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s (id %d)\n", sc.Admin.Email, sc.Admin.ID)
			return nil
		},
	}
}

func newPreflightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Verifica endpoint-urile de admin ale backend-ului",
		RunE: func(cmd *cobra.Command, args []string) error {
			missing, err := preflight.Check(cmd.Context(), a.client, preflight.RequiredEndpoints)
			if err != nil {
				return withCode(exitRemote, err)
			}
			if len(missing) > 0 {
				return withCode(exitRemote, &preflight.MissingEndpointsError{Paths: missing})
			}
			fmt.Fprintln(out(cmd), "Toate endpoint-urile raspund.")
			return nil
		},
	}
}

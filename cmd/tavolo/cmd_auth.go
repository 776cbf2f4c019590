package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tavolo/tavolo/internal/auth"
	"github.com/tavolo/tavolo/internal/guard"
	"github.com/tavolo/tavolo/pkg/validate"
)

// tavolo login <phone|email>
var loginCmd = &cobra.Command{
	Use:   "login <phone|email>",
	Short: "Sign in with a phone number or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		if d := guard.RequireGuest(sess.auth.Snapshot()); d.Kind == guard.Redirect {
			fmt.Printf("Already signed in; your landing route is %s. Run `tavolo logout` first.\n", d.To)
			return nil
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		cred := auth.Credentials{PhoneOrEmail: args[0], Password: password}
		if err := sess.auth.Login(cmd.Context(), cred); err != nil {
			return err
		}

		snap := sess.auth.Snapshot()
		fmt.Printf("Signed in as %s (%s). Landing route: %s\n", snap.User.Name, snap.User.Role, snap.LandingRoute())
		return nil
	},
}

// tavolo register
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new customer account",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		form := auth.RegisterForm{
			Name:        prompt(reader, "Name: "),
			PhoneNumber: prompt(reader, "Phone number: "),
			Email:       prompt(reader, "Email (optional): "),
		}
		form.Password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
		form.PasswordConfirmation, err = promptPassword("Confirm password: ")
		if err != nil {
			return err
		}

		if errs := validate.Struct(form); validate.HasErrors(errs) {
			return fmt.Errorf("%s", validate.First(errs))
		}

		msg, err := auth.NewService(sess.store).Register(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

// tavolo logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		sess.auth.Logout(cmd.Context())
		fmt.Println("Signed out.")
		return nil
	},
}

// tavolo whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session and its landing route",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		snap := sess.auth.Snapshot()
		if !snap.IsAuthenticated {
			fmt.Printf("Guest session %s. Landing route: %s\n", sess.whoFor(), snap.LandingRoute())
			return nil
		}

		fmt.Printf("%s (%s)\n", snap.User.Name, snap.User.Role)
		if snap.User.Email != "" {
			fmt.Printf("  email: %s\n", snap.User.Email)
		}
		if snap.User.Phone != "" {
			fmt.Printf("  phone: %s\n", snap.User.Phone)
		}
		fmt.Printf("  landing route: %s\n", snap.LandingRoute())
		return nil
	},
}

// tavolo profile:update
var profileUpdateCmd = &cobra.Command{
	Use:   "profile:update",
	Short: "Update name, phone, or email on the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := boot()
		if err != nil {
			return err
		}

		snap := sess.auth.Snapshot()
		if d := guard.RequireRole(snap, auth.RoleCustomer, auth.RoleAdmin, auth.RoleEmployee); d.Kind == guard.Redirect {
			return fmt.Errorf("sign in first (redirect to %s)", d.To)
		}

		form := auth.ProfileForm{
			Name:  flagProfileName,
			Phone: flagProfilePhone,
			Email: flagProfileEmail,
		}
		if errs := validate.Struct(form); validate.HasErrors(errs) {
			return fmt.Errorf("%s", validate.First(errs))
		}

		user, err := auth.NewService(sess.store).UpdateProfile(cmd.Context(), snap.Token, form)
		if err != nil {
			return err
		}

		sess.auth.UpdateUser(form)
		fmt.Printf("Profile updated: %s\n", user.Name)
		return nil
	},
}

var (
	flagProfileName  string
	flagProfilePhone string
	flagProfileEmail string
)

func init() {
	profileUpdateCmd.Flags().StringVar(&flagProfileName, "name", "", "new display name")
	profileUpdateCmd.Flags().StringVar(&flagProfilePhone, "phone", "", "new phone number")
	profileUpdateCmd.Flags().StringVar(&flagProfileEmail, "email", "", "new email")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/export"
	"github.com/clinicdesk/clinicdesk/internal/service"
	"github.com/clinicdesk/clinicdesk/pkg/database"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinicdesk",
		Short:         "Clinic record-keeping: patients, consultations, stays, billing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCommand(),
		newLoginCommand(),
		newPatientCommand(),
		newConsultationCommand(),
		newAdmitCommand(),
		newDischargeCommand(),
		newAppointmentCommand(),
		newInvoiceCommand(),
		newVaccineCommand(),
		newMedCommand(),
		newRoomCommand(),
		newBackupCommand(),
		newExportCommand(),
		newStaffCommand(),
		newOverviewCommand(),
		newSettingsCommand(),
	)
	return root
}

// withApp builds the wired application, runs fn, and tears everything
// down afterwards, flushing the audit buffer.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := buildApp()
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(cmd, args, a)
	}
}

// sessionFromFlags resolves the acting identity from --token or the
// CLINIC_TOKEN environment variable.
func sessionFromFlags(cmd *cobra.Command, a *app) (domain.Session, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("CLINIC_TOKEN")
	}
	if token == "" {
		return domain.Session{}, fmt.Errorf("no session: pass --token or set CLINIC_TOKEN (see 'clinicdesk login')")
	}
	sess, err := a.auth.Resume(token)
	if err != nil {
		return domain.Session{}, err
	}
	return *sess, nil
}

func newInitCommand() *cobra.Command {
	var adminEmail, adminPassword string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema, default settings and the bootstrap admin",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := database.Seed(a.db, adminEmail, adminPassword, a.log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s initialized.\n", a.cfg.Database.Path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@clinic.local", "bootstrap admin email")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin123", "bootstrap admin password (change it after first login)")
	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a session token",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			token, sess, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), session valid until %s.\n",
				sess.Name, sess.Role, sess.ExpiresAt.Format("15:04"))
			fmt.Fprintf(cmd.OutOrStdout(), "export CLINIC_TOKEN=%s\n", token)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "staff email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "staff password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the database file into the backup directory",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			dest, err := a.maintenance.Backup(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", dest)
			return nil
		}),
	}
	cmd.Flags().String("token", "", "session token")
	return cmd
}

func newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:       "export <table>",
		Short:     "Export one table to CSV or a spreadsheet",
		Args:      cobra.ExactArgs(1),
		ValidArgs: exportableTableNames(),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}

			var path string
			switch format {
			case "csv":
				path, err = a.exports.ExportCSV(cmd.Context(), args[0], sess)
			case "xlsx":
				path, err = a.exports.ExportXLSX(cmd.Context(), args[0], sess)
			default:
				return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv or xlsx")
	cmd.Flags().String("token", "", "session token")
	return cmd
}

func exportableTableNames() []string {
	names := make([]string, 0, len(export.ExportableTables))
	for t := range export.ExportableTables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

func newStaffCommand() *cobra.Command {
	staff := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}
	staff.AddCommand(newStaffAddCommand())
	return staff
}

func newStaffAddCommand() *cobra.Command {
	var (
		email, password, lastName, firstName string
		role, specialty, phone               string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a staff account (admin only)",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			created, err := a.auth.CreateStaff(cmd.Context(), &service.CreateStaffCommand{
				Email:     email,
				Password:  password,
				LastName:  lastName,
				FirstName: firstName,
				Role:      domain.Role(role),
				Specialty: specialty,
				Phone:     phone,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Staff account %s (%s) created with id %d.\n",
				created.Email, created.Role, created.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleStaff), "role: admin or staff")
	cmd.Flags().StringVar(&specialty, "specialty", "", "medical specialty")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().String("token", "", "session token")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}

func newOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show today's urgent numbers",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			o, err := a.reports.UrgentOverview(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Appointments today:        %d\n", o.AppointmentsToday)
			fmt.Fprintf(out, "Stays over a week:         %d\n", o.LongStays)
			fmt.Fprintf(out, "Invoices urgently unpaid:  %d\n", o.UrgentUnpaid)
			fmt.Fprintf(out, "Medications low on stock:  %d\n", o.LowStockMeds)
			return nil
		}),
	}
}

func newSettingsCommand() *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change clinic settings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print every setting",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			all, err := a.maintenance.ListSettings(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%-25s %s\n", s.Key, s.Value)
			}
			return nil
		}),
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			key, value := strings.TrimSpace(args[0]), args[1]
			if err := a.maintenance.UpdateSetting(cmd.Context(), key, value, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		}),
	}
	set.Flags().String("token", "", "session token")

	settings.AddCommand(list, set)
	return settings
}

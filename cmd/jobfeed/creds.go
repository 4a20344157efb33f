package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfeed/internal/secrets"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage credentials in the OS keychain",
	Long: "Stores credentials in the OS keychain so they need not live in the config file or " +
		"environment. Names: " + strings.Join(secrets.Accounts, ", ") + ".",
}

var credsSetCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a credential (reads stdin when value is omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCredsSet,
}

var credsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredsDelete,
}

var credsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which credentials are stored",
	Args:  cobra.NoArgs,
	RunE:  runCredsList,
}

func init() {
	rootCmd.AddCommand(credsCmd)
	credsCmd.AddCommand(credsSetCmd, credsDeleteCmd, credsListCmd)
}

func runCredsSet(cmd *cobra.Command, args []string) error {
	value := ""
	if len(args) == 2 {
		value = args[1]
	} else {
		fmt.Fprintf(os.Stderr, "value for %s: ", args[0])
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "\nreading value: %v\n", err)
			os.Exit(1)
		}
		value = line
	}

	if err := secrets.Set(args[0], value); err != nil {
		fmt.Fprintf(os.Stderr, "storing %s: %v\n", args[0], err)
		os.Exit(1)
	}
	fmt.Printf("Stored %s in the keychain.\n", args[0])
	return nil
}

func runCredsDelete(cmd *cobra.Command, args []string) error {
	if err := secrets.Delete(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "deleting %s: %v\n", args[0], err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s from the keychain.\n", args[0])
	return nil
}

func runCredsList(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-18s %s\n", "Name", "Keychain")
	fmt.Println(strings.Repeat("─", 28))
	for _, a := range secrets.Accounts {
		status := "missing"
		if secrets.Stored(a) {
			status = "stored"
		}
		fmt.Printf("%-18s %s\n", a, status)
	}
	return nil
}

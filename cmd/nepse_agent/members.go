package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoirala/nepse-agent/internal/report"
	"github.com/skoirala/nepse-agent/internal/store"
	"github.com/skoirala/nepse-agent/internal/types"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage stored household members",
	Long:  "Adds, lists, updates, and removes the member records the apply commands run against. Records live in family_members.json in the data directory.",
}

var memberFlags struct {
	name     string
	dp       string
	username string
	password string
	pin      string
	kitta    int
	crn      string
}

var membersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new member",
	RunE:  runMembersAdd,
}

var membersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace an existing member's record",
	RunE:  runMembersUpdate,
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored members with credentials masked",
	RunE:  runMembersList,
}

var membersRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a member",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersRemove,
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&memberFlags.name, "name", "", "Member name (required)")
	cmd.Flags().StringVar(&memberFlags.dp, "dp", "", "Depository participant ID, e.g. 13700 (required)")
	cmd.Flags().StringVar(&memberFlags.username, "username", "", "Meroshare username (required)")
	cmd.Flags().StringVar(&memberFlags.password, "password", "", "Meroshare password (required)")
	cmd.Flags().StringVar(&memberFlags.pin, "pin", "", "4-digit transaction PIN (required)")
	cmd.Flags().IntVar(&memberFlags.kitta, "kitta", 10, "Units to apply for, minimum 10")
	cmd.Flags().StringVar(&memberFlags.crn, "crn", "", "CRN number (required)")

	for _, name := range []string{"name", "dp", "username", "password", "pin", "crn"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}

func init() {
	addRecordFlags(membersAddCmd)
	addRecordFlags(membersUpdateCmd)

	membersCmd.AddCommand(membersAddCmd)
	membersCmd.AddCommand(membersUpdateCmd)
	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersRemoveCmd)
	rootCmd.AddCommand(membersCmd)
}

func memberFromFlags() types.MemberRecord {
	return types.MemberRecord{
		Name:           memberFlags.name,
		DPID:           memberFlags.dp,
		Username:       memberFlags.username,
		Password:       memberFlags.password,
		TransactionPIN: memberFlags.pin,
		Kitta:          memberFlags.kitta,
		CRN:            memberFlags.crn,
	}
}

func runMembersAdd(_ *cobra.Command, _ []string) error {
	st, err := store.Open()
	if err != nil {
		return err
	}
	m := memberFromFlags()
	if err := st.Add(m); err != nil {
		return err
	}
	fmt.Printf("Added %s to %s\n", m.Name, st.Path())
	return nil
}

func runMembersUpdate(_ *cobra.Command, _ []string) error {
	st, err := store.Open()
	if err != nil {
		return err
	}
	m := memberFromFlags()
	if err := st.Update(m); err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", m.Name)
	return nil
}

func runMembersList(_ *cobra.Command, _ []string) error {
	st, err := store.Open()
	if err != nil {
		return err
	}
	members, err := st.List()
	if err != nil {
		return err
	}
	fmt.Print(report.RenderMembers(members))
	return nil
}

func runMembersRemove(_ *cobra.Command, args []string) error {
	st, err := store.Open()
	if err != nil {
		return err
	}
	if err := st.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/team-directory/internal/directory"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the role policy table and sample users",
	Long:  `Seed the role policy lookup table plus a super admin and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"role_policies", "user_roles", "user_permissions", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing directory data")
		}

		// role policy lookup table: which roles a department accepts
		for dept, roles := range directory.DefaultRolePolicy() {
			for _, role := range roles {
				var exists int
				row := db.Raw("SELECT 1 FROM role_policies WHERE department = ? AND role = ?", dept, role).Row()
				if err := row.Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_policies (department, role) VALUES (?, ?)", dept, role).Error; err != nil {
					log.Fatalf("failed to insert role policy %s/%s: %v", dept, role, err)
				}
			}
		}
		fmt.Println("Role policy table seeded")

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		seedUsers := []struct {
			Email      string
			Name       string
			Department string
			Roles      []string
		}{
			{"admin@mail.com", "Site Admin", directory.DeptOperations, []string{directory.RoleSuperAdmin}},
			{"lead@mail.com", "Engineering Lead", directory.DeptEngineering, []string{directory.RoleTeamLead, directory.RoleDeveloper}},
			{"dev@mail.com", "Sample Developer", directory.DeptEngineering, []string{directory.RoleDeveloper}},
		}

		for _, su := range seedUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", su.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", su.Email)
				continue
			}

			id := uuid.NewString()
			now := time.Now()
			if err := db.Exec(
				"INSERT INTO users (id, email, full_name, password_hash, department, status, active_projects, perms_overridden, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 'active', 0, false, ?, ?)",
				id, su.Email, su.Name, string(hash), su.Department, now, now,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", su.Email, err)
			}

			for _, role := range su.Roles {
				if err := db.Exec("INSERT INTO user_roles (user_id, role) VALUES (?, ?)", id, role).Error; err != nil {
					log.Fatalf("failed to insert role %s for %s: %v", role, su.Email, err)
				}
			}
			for _, perm := range directory.PermissionsForRoles(su.Roles) {
				if err := db.Exec("INSERT INTO user_permissions (user_id, permission) VALUES (?, ?)", id, perm).Error; err != nil {
					log.Fatalf("failed to insert permission %s for %s: %v", perm, su.Email, err)
				}
			}
			fmt.Printf("Seeded user: %s (%s)\n", su.Email, su.Department)
		}

		fmt.Println("Directory seeded successfully")
	},
}

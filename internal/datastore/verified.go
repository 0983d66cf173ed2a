package datastore

import "fmt"

// AddVerifiedUser grants a user access to administrative commands.
func (s *Store) AddVerifiedUser(discordID uint64) error {
	query := `INSERT INTO verified_user (discord_id) VALUES (?) ON CONFLICT(discord_id) DO NOTHING`
	if _, err := s.db.Exec(query, discordID); err != nil {
		return fmt.Errorf("failed to add verified user %d: %w", discordID, err)
	}
	return nil
}

// RemoveVerifiedUser revokes a user's access to administrative commands.
func (s *Store) RemoveVerifiedUser(discordID uint64) error {
	if _, err := s.db.Exec(`DELETE FROM verified_user WHERE discord_id = ?`, discordID); err != nil {
		return fmt.Errorf("failed to remove verified user %d: %w", discordID, err)
	}
	return nil
}

// IsVerifiedUser reports whether the user id is on the verified list.
func (s *Store) IsVerifiedUser(discordID uint64) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM verified_user WHERE discord_id = ?`, discordID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query verified user %d: %w", discordID, err)
	}
	return exists > 0, nil
}

// AddVerifiedRole grants a role access to administrative commands.
func (s *Store) AddVerifiedRole(roleID uint64) error {
	query := `INSERT INTO verified_role (role_id) VALUES (?) ON CONFLICT(role_id) DO NOTHING`
	if _, err := s.db.Exec(query, roleID); err != nil {
		return fmt.Errorf("failed to add verified role %d: %w", roleID, err)
	}
	return nil
}

// RemoveVerifiedRole revokes a role's access to administrative commands.
func (s *Store) RemoveVerifiedRole(roleID uint64) error {
	if _, err := s.db.Exec(`DELETE FROM verified_role WHERE role_id = ?`, roleID); err != nil {
		return fmt.Errorf("failed to remove verified role %d: %w", roleID, err)
	}
	return nil
}

// VerifiedRoles returns all role ids on the verified list.
func (s *Store) VerifiedRoles() ([]uint64, error) {
	rows, err := s.db.Query(`SELECT role_id FROM verified_role`)
	if err != nil {
		return nil, fmt.Errorf("failed to query verified roles: %w", err)
	}
	defer rows.Close()

	var roles []uint64
	for rows.Next() {
		var roleID uint64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan verified role: %w", err)
		}
		roles = append(roles, roleID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate verified roles: %w", err)
	}
	return roles, nil
}

// IsAuthorized evaluates the administrative-access predicate: the user is
// the deployment owner, is individually verified, or holds any verified
// role. Callers pass the requester's role ids as reported by the guild.
func (s *Store) IsAuthorized(userID uint64, roleIDs []uint64, ownerID uint64) (bool, error) {
	if ownerID != 0 && userID == ownerID {
		return true, nil
	}

	verified, err := s.IsVerifiedUser(userID)
	if err != nil {
		return false, err
	}
	if verified {
		return true, nil
	}

	verifiedRoles, err := s.VerifiedRoles()
	if err != nil {
		return false, err
	}
	verifiedSet := make(map[uint64]struct{}, len(verifiedRoles))
	for _, roleID := range verifiedRoles {
		verifiedSet[roleID] = struct{}{}
	}
	for _, roleID := range roleIDs {
		if _, ok := verifiedSet[roleID]; ok {
			return true, nil
		}
	}
	return false, nil
}

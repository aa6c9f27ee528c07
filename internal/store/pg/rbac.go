package pg

import (
	"context"
)

// GetUserRoles: devuelve los nombres de rol del usuario. El core no depende
// del orden; se ordena solo para que los tests sean reproducibles.
func (s *Store) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	const q = `
SELECT r.name
  FROM user_role ur
  JOIN role r ON r.name = ur.role
 WHERE ur.user_id = $1
 ORDER BY r.name`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// EnsureRole: crea el rol si no existe. "ya existe" no es error.
func (s *Store) EnsureRole(ctx context.Context, name string) error {
	const q = `INSERT INTO role (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	_, err := s.pool.Exec(ctx, q, name)
	return err
}

// AddUserToRole: membresía idempotente. El FK sobre role(name) hace que un
// rol inexistente falle acá (no silenciosamente).
func (s *Store) AddUserToRole(ctx context.Context, userID, role string) error {
	const q = `
INSERT INTO user_role (user_id, role)
VALUES ($1, $2)
ON CONFLICT (user_id, role) DO NOTHING`
	_, err := s.pool.Exec(ctx, q, userID, role)
	return err
}

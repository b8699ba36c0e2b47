package sqlstore

const (
	sCHEMA_USERS = `
		CREATE TABLE users (
			id       bigint not null,
			name     text,
			email    text,

			PRIMARY KEY(id)
		);`

	query_USER_BY_ID = `
		SELECT id, name, email FROM users
		WHERE id = $1`
	query_ALL_USERS = `
		SELECT id, name, email FROM users
		ORDER BY id ASC`
	query_ADD_USER = `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)`
	query_DELETE_USER = `
		DELETE FROM users
		WHERE id = $1`
)

package repository

const GetClientBySlugSQL = `
SELECT id, slug, title, description, primary_color, telegram_chat, active
FROM clients
WHERE slug = $1 AND active = TRUE;
`

const UpsertClientSQL = `
INSERT INTO clients (slug, title, description, primary_color, telegram_chat, active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    primary_color = EXCLUDED.primary_color,
    telegram_chat = EXCLUDED.telegram_chat,
    active = EXCLUDED.active;
`

const ListClientsSQL = `
SELECT slug, title
FROM clients
WHERE active = TRUE
ORDER BY slug;
`

const InsertLeadSQL = `
INSERT INTO leads (client_id, phone)
VALUES ($1, $2)
RETURNING id, created_at;
`

const ListLeadsSQL = `
SELECT l.id, c.slug, c.title, l.phone, l.created_at
FROM leads l
JOIN clients c ON c.id = l.client_id
ORDER BY c.slug, l.created_at;
`

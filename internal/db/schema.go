package db

const createStateTable = `
CREATE TABLE IF NOT EXISTS client_state (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const selectState = `
SELECT value FROM client_state WHERE key = ?
`

const upsertState = `
INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

const createDownloadsTable = `
CREATE TABLE IF NOT EXISTS downloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    screenshot_id TEXT NOT NULL,
    url TEXT,
    location TEXT NOT NULL,
    size_bytes INTEGER DEFAULT 0,
    saved_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_downloads_screenshot ON downloads(screenshot_id);
CREATE INDEX IF NOT EXISTS idx_downloads_saved_at ON downloads(saved_at);
`

const insertDownload = `
INSERT INTO downloads (screenshot_id, url, location, size_bytes, saved_at)
VALUES (?, ?, ?, ?, ?)
`

const selectDownloads = `
SELECT id, screenshot_id, COALESCE(url, ''), location, size_bytes, saved_at
FROM downloads
ORDER BY saved_at DESC, id DESC
LIMIT ?
`

const selectDownloadsForScreenshot = `
SELECT id, screenshot_id, COALESCE(url, ''), location, size_bytes, saved_at
FROM downloads
WHERE screenshot_id = ?
ORDER BY saved_at DESC, id DESC
`

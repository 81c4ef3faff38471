// ABOUTME: SQLite database schema for the coaching memory pipeline
// ABOUTME: Creates all tables, unique constraints, and indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- User identity
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    full_name TEXT,
    email TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Optional business context, all fields nullable
CREATE TABLE IF NOT EXISTS business_profiles (
    user_id TEXT PRIMARY KEY,
    role TEXT,
    industry TEXT,
    stage TEXT,
    team_size INTEGER,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Coaching goals; priority 1 is highest
CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    category TEXT,
    target_date DATETIME,
    priority INTEGER DEFAULT 1,
    status TEXT DEFAULT 'active',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals(user_id, status);

-- Coaching sessions
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    ended_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id);

-- Messages are immutable once written
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);

-- One embedding per message, created asynchronously after the message
CREATE TABLE IF NOT EXISTS message_embeddings (
    message_id TEXT PRIMARY KEY REFERENCES messages(id) ON DELETE CASCADE,
    conversation_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_message_embeddings_user ON message_embeddings(user_id);

-- At most one summary per conversation; regeneration overwrites
CREATE TABLE IF NOT EXISTS conversation_summaries (
    conversation_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    summary TEXT NOT NULL,
    key_topics TEXT,
    decisions_made TEXT,
    action_items_discussed TEXT,
    goals_referenced TEXT,
    blockers_identified TEXT,
    breakthroughs TEXT,
    patterns_noticed TEXT,
    user_state TEXT,
    coaching_approach_used TEXT,
    session_value TEXT,
    vector BLOB,
    message_count INTEGER DEFAULT 0,
    generated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_conversation_summaries_user ON conversation_summaries(user_id, generated_at);

-- Weekly rollups, one per (user, week_start)
CREATE TABLE IF NOT EXISTS weekly_summaries (
    user_id TEXT NOT NULL,
    week_start DATETIME NOT NULL,
    week_end DATETIME NOT NULL,
    summary TEXT NOT NULL,
    progress_notes TEXT,
    goals_progress TEXT,
    key_decisions TEXT,
    challenges_faced TEXT,
    wins TEXT,
    generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, week_start)
);

-- Monthly rollups, one per (user, month_start)
CREATE TABLE IF NOT EXISTS monthly_summaries (
    user_id TEXT NOT NULL,
    month_start DATETIME NOT NULL,
    month_end DATETIME NOT NULL,
    summary TEXT NOT NULL,
    goals_progress TEXT,
    milestones_achieved TEXT,
    recurring_themes TEXT,
    behavioral_patterns TEXT,
    growth_areas TEXT,
    sessions_count INTEGER DEFAULT 0,
    breakthroughs_count INTEGER DEFAULT 0,
    decisions_count INTEGER DEFAULT 0,
    focus_areas_next_month TEXT,
    coach_observations TEXT,
    generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, month_start)
);

-- Extracted user commitments
CREATE TABLE IF NOT EXISTS action_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    conversation_id TEXT,
    task TEXT NOT NULL,
    description TEXT,
    priority TEXT,
    due_date DATETIME,
    status TEXT DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_action_items_user_status ON action_items(user_id, status);
`

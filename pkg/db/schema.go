package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per processing run (opt-in ledger)
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid TEXT NOT NULL UNIQUE,
    source_root TEXT NOT NULL,
    target_root TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    city_count INTEGER DEFAULT 0,
    processed_count INTEGER DEFAULT 0,
    error_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Run results: per-plan outcome within a run
CREATE TABLE IF NOT EXISTS run_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    city TEXT NOT NULL,
    plan_dir TEXT NOT NULL,
    plan_number TEXT,
    status TEXT NOT NULL,       -- success, skipped, failed
    error_type TEXT,
    error_message TEXT,
    target_dir TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_results_run ON run_results(run_id);
CREATE INDEX IF NOT EXISTS idx_run_results_status ON run_results(status);

-- Cities: one row per normalized city
CREATE TABLE IF NOT EXISTS cities (
    city_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    name_en TEXT,
    city_code INTEGER DEFAULT 0,
    language TEXT,
    total_plans INTEGER DEFAULT 0,
    last_processed TEXT
);

-- Plans: flattened plan_metadata.json for filtering
CREATE TABLE IF NOT EXISTS plans (
    plan_id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    plan_number TEXT,
    city TEXT,
    city_en TEXT,
    city_code INTEGER DEFAULT 0,
    status TEXT,
    plan_type TEXT,
    status_date TEXT,
    relation_type TEXT,
    has_takanon BOOLEAN DEFAULT 0,
    has_tasritim BOOLEAN DEFAULT 0,
    has_nispachim BOOLEAN DEFAULT 0,
    has_mmg BOOLEAN DEFAULT 0,
    has_map BOOLEAN DEFAULT 0,
    appendix_count INTEGER DEFAULT 0,
    drawing_count INTEGER DEFAULT 0,
    last_updated TEXT
);

CREATE INDEX IF NOT EXISTS idx_plans_number ON plans(plan_number);
CREATE INDEX IF NOT EXISTS idx_plans_city ON plans(city);
CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status);
CREATE INDEX IF NOT EXISTS idx_plans_city_code ON plans(city_code);

-- Plan keywords: search_keywords in order, duplicates kept
CREATE TABLE IF NOT EXISTS plan_keywords (
    plan_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    keyword TEXT NOT NULL,
    FOREIGN KEY (plan_id) REFERENCES plans(plan_id) ON DELETE CASCADE,
    PRIMARY KEY (plan_id, position)
);

CREATE INDEX IF NOT EXISTS idx_plan_keywords_keyword ON plan_keywords(keyword);
`

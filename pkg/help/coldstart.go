package help

const ColdstartYAML = `# planrepo Quick Start

commands:
  process: |
    planrepo <source_path> <target_path>
    planrepo process <source_path> <target_path>

  process_with_ledger: |
    planrepo --db planrepo.db <source_path> <target_path>

  build_index: |
    planrepo --db planrepo.db index <target_path>

  quick_search: |
    planrepo search <target_path> "אור יהודה"
    planrepo search --city Haifa --status מאושר <target_path>

  structured_search: |
    planrepo search --city-code 5000 --from 01/01/2024 --has-documents <target_path>

  recommendations: |
    planrepo recommend <target_path> 552-0137539

  insights: |
    planrepo insights --city "אור יהודה" <target_path>

  list_runs: |
    planrepo --db planrepo.db runs
    planrepo --db planrepo.db runs show --failed

  query_index: |
    planrepo --db planrepo.db query --filter 'status=מאושר AND city_code=5000'
    planrepo --db planrepo.db query --filter 'keyword:מגורים OR has_takanon'

target_layout:
  - "cities/<city>/city_metadata.json"
  - "cities/<city>/plans/<plan>/plan_metadata.json"
  - "cities/<city>/plans/<plan>/README.md"
  - "cities/<city>/plans/<plan>/{documents,extracted,analysis}/"
  - "metadata/plans_master_index.json (after 'planrepo index')"

city_directories:
  - "Source dirs look like <name>-<code>_<suffix>, e.g. תל_אביב-5000_20250101"
  - "Underscores in the name become spaces; spaces become hyphens in the target"
  - "A missing or non-numeric code is 0"

query_fields:
  text: "plan_number, city, city_en, status, plan_type (type), status_date, relation_type, last_updated"
  numeric: "city_code (code), appendix_count, drawing_count"
  boolean: "has_takanon, has_tasritim, has_nispachim, has_mmg, has_map"
  special: "keyword:<exact keyword>, <field>~<substring>"

config_file:
  env: "PLANREPO_CONFIG"
  keys: "source_system, extraction_date, processing_version, processor_version, city_translations"

error_behavior:
  - "Bad plan files are logged, counted and skipped"
  - "City metadata is written even when some plans failed"
  - "Exit codes: 0=done (even with item errors), 1=missing arguments, 2=bad config or database"
`

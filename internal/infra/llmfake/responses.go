package llmfake

// DocumentAnalysisResponse は参照ドキュメント分析の既定応答
const DocumentAnalysisResponse = `{
  "technologies": ["Azure Data Factory", "Databricks", "Power BI", "Snowflake", "Python", "dbt"],
  "approaches": ["Agile delivery", "Medallion architecture", "DataOps", "Proof of concept first"],
  "case_studies": ["Retail lakehouse migration for a European grocer"],
  "key_themes": ["Cloud modernisation", "Self-service analytics"],
  "business_benefits": ["Lower total cost of ownership", "Faster reporting"],
  "challenges_addressed": ["Legacy ETL bottlenecks"],
  "implementation_patterns": ["Incremental ingestion with change data capture"],
  "client_examples": ["Grocer data platform"]
}`

// ProjectAnalysisResponse は案件分析の既定応答
const ProjectAnalysisResponse = `{
  "requirements": ["Migrate the on-premise warehouse", "Near real-time sales dashboards", "Data governance"],
  "technologies": ["Databricks", "Power BI", "Azure"],
  "solution_approaches": ["Agile delivery", "Lakehouse"],
  "target_audience": "CIO and data leadership",
  "key_objectives": ["Reduce reporting latency", "Retire legacy ETL"],
  "business_drivers": ["Cost reduction"],
  "technical_challenges": ["Data quality across stores"],
  "success_criteria": ["Dashboards refreshed every 15 minutes"],
  "presentation_focus": ["Architecture", "Roadmap"],
  "value_propositions": ["Faster decisions"]
}`

// DiagramResponse は図仕様生成の既定応答
const DiagramResponse = `{
  "diagrams": [
    {
      "diagram_type": "data_pipeline",
      "title": "Lakehouse Data Flow",
      "layout_direction": "LR",
      "components": [
        {"name": "POS Systems", "component_type": "database", "icon_provider": "onprem"},
        {"name": "Data Factory", "component_type": "etl", "icon_provider": "azure"},
        {"name": "Databricks", "component_type": "analytics", "icon_provider": "azure"},
        {"name": "Power BI", "component_type": "analytics", "icon_provider": "azure"}
      ],
      "connections": [
        {"source": "POS Systems", "target": "Data Factory", "label": "CDC"},
        {"source": "Data Factory", "target": "Databricks"},
        {"source": "Databricks", "target": "Power BI", "connection_type": "async"}
      ],
      "clustering": {"Azure": ["Data Factory", "Databricks"]}
    }
  ],
  "analysis_metadata": {
    "architecture_pattern": "lakehouse",
    "complexity_level": "medium",
    "technical_confidence": 0.8,
    "recommended_slides": ["Solution Architecture"]
  }
}`

// ContentResponse はスライド生成の既定応答
const ContentResponse = `{
  "slides": [
    {"title": "Modern Data Platform for Acme Retail", "content": ["Proposal for Acme Retail", "Prepared by Keyrus"], "layout_type": "title", "notes": "Opening"},
    {"title": "Executive Summary", "content": ["Unify sales data in a lakehouse", "Dashboards in minutes, not days"], "layout_type": "bullet"},
    {"title": "Solution Architecture", "content": ["Azure Data Factory ingestion", "Databricks medallion layers", "Power BI semantic model"], "layout_type": "bullet", "notes": "Walk through the data flow"},
    {"title": "Delivery Approach", "content": ["Two-week sprints", "Proof of concept in month one"], "layout_type": "bullet"},
    {"title": "Next Steps", "content": ["Kick-off workshop", "Confirm scope and timeline"], "layout_type": "bullet"}
  ],
  "presentation_metadata": {
    "total_slides": 5,
    "estimated_duration": "20 minutes",
    "key_messages": ["Faster insight", "Lower cost"]
  }
}`
